package controllers

import (
	"time"

	"yatube/app/paginator"
)

type apiPost struct {
	ID        int          `json:"id"`
	Text      string       `json:"text"`
	Author    string       `json:"author"`
	Group     string       `json:"group,omitempty"`
	Image     string       `json:"image,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Comments  []apiComment `json:"comments,omitempty"`
}

type apiComment struct {
	ID        int       `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type apiGroup struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type apiAuthor struct {
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	PostCount int    `json:"post_count"`
	Following bool   `json:"following"`
}

type apiFeed struct {
	Page   paginator.Meta `json:"page"`
	Posts  []apiPost      `json:"posts"`
	Group  *apiGroup      `json:"group,omitempty"`
	Author *apiAuthor     `json:"author,omitempty"`
}

func toAPIPost(pv PostView) apiPost {
	out := apiPost{
		ID:        pv.ID,
		Text:      pv.Text,
		Image:     pv.Image,
		CreatedAt: pv.CreatedAt,
	}
	if pv.Author != nil {
		out.Author = pv.Author.Username
	}
	if pv.Group != nil {
		out.Group = pv.Group.Slug
	}
	return out
}

func toAPIComments(comments []CommentView) []apiComment {
	out := make([]apiComment, 0, len(comments))
	for _, c := range comments {
		ac := apiComment{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
		if c.Author != nil {
			ac.Author = c.Author.Username
		}
		out = append(out, ac)
	}
	return out
}

func toAPIFeed(page paginator.Page[PostView]) apiFeed {
	posts := make([]apiPost, 0, len(page.Items))
	for _, pv := range page.Items {
		posts = append(posts, toAPIPost(pv))
	}
	return apiFeed{Page: page.Meta(), Posts: posts}
}
