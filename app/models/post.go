package models

import (
	"errors"
	"sort"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
}

// InGroup reports whether the post is assigned to groupID.
func (p *Post) InGroup(groupID int) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}

// Matches reports whether the post passes every restriction of f.
func (p *Post) Matches(f PostFilter) bool {
	if f.GroupID != 0 && !p.InGroup(f.GroupID) {
		return false
	}
	if f.AuthorIDs != nil {
		for _, id := range f.AuthorIDs {
			if id == p.AuthorID {
				return true
			}
		}
		return false
	}
	return true
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}

// SortNewestFirst orders posts by creation time descending, newest id first on ties.
func SortNewestFirst(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}
