package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"yatube/app/loaders"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/paginator"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/csrf"
)

// PostView is a post together with its author and group.
type PostView struct {
	*models.Post
	Author *models.User
	Group  *models.Group
}

// CommentView is a comment together with its author.
type CommentView struct {
	*models.Comment
	Author *models.User
}

// formData echoes submitted values back into a re-rendered form.
type formData struct {
	PostID    int
	Text      string
	GroupID   *int
	Username  string
	FirstName string
	LastName  string
}

// viewData is the template context shared by every page.
type viewData struct {
	User      *models.User
	CSRFField template.HTML
	Path      string
	Next      string

	Page      paginator.Page[PostView]
	Group     *models.Group
	Author    *models.User
	PostCount int
	Following bool

	Post     PostView
	Comments []CommentView
	Groups   []*models.Group

	Form   formData
	Errors models.ValidationError
	IsEdit bool
}

var pages = map[string]string{
	"index":       "posts/index.html",
	"group_list":  "posts/group_list.html",
	"profile":     "posts/profile.html",
	"follow":      "posts/follow.html",
	"post_detail": "posts/post_detail.html",
	"create_post": "posts/create_post.html",
	"login":       "auth/login.html",
	"signup":      "auth/signup.html",
	"404":         "core/404.html",
	"403csrf":     "core/403csrf.html",
	"500":         "core/500.html",
}

// View renders pages and maps errors to responses.
type View struct {
	templates map[string]*template.Template
}

// NewView parses every page from fsys. A nil fsys uses the embedded templates.
func NewView(fsys fs.FS) (*View, error) {
	if fsys == nil {
		fsys = views.FS
	}
	templates, err := loadTemplates(fsys)
	if err != nil {
		return nil, err
	}
	return &View{templates: templates}, nil
}

// loadTemplates loads and parses all templates
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := views.Parse(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// Render executes the named page into a buffer, then writes it with status.
func (v *View) Render(w http.ResponseWriter, r *http.Request, name string, status int, data *viewData) {
	t, ok := v.templates[name]
	if !ok {
		log.Printf("unknown template %q", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &viewData{}
	}
	data.User = middleware.CurrentUser(r.Context())
	data.CSRFField = csrf.TemplateField(r)
	data.Path = r.URL.Path

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// NotFound renders the 404 page.
func (v *View) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		sendError(w, "Not found", http.StatusNotFound)
		return
	}
	v.Render(w, r, "404", http.StatusNotFound, nil)
}

// ServerError renders the 500 page.
func (v *View) ServerError(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	v.Render(w, r, "500", http.StatusInternalServerError, nil)
}

// CSRFFailure renders the 403 page shown for a missing or bad CSRF token.
func (v *View) CSRFFailure(w http.ResponseWriter, r *http.Request) {
	log.Printf("csrf failure on %s: %s", r.URL.Path, middleware.CSRFFailureReason(r))
	v.Render(w, r, "403csrf", http.StatusForbidden, nil)
}

// handleError maps service errors onto responses.
func (v *View) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		v.NotFound(w, r)
	case errors.Is(err, services.ErrUnauthorized):
		if wantsJSON(r) {
			sendError(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		middleware.RedirectToLogin(w, r)
	case errors.Is(err, services.ErrForbidden):
		if wantsJSON(r) {
			sendError(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		v.ServerError(w, r)
	}
}

// postViews resolves authors and groups of posts in one batch each.
func postViews(ctx context.Context, posts []*models.Post) ([]PostView, error) {
	authorIDs := make([]int, 0, len(posts))
	groupIDs := make([]int, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
		if p.GroupID != nil {
			groupIDs = append(groupIDs, *p.GroupID)
		}
	}
	l := loaders.For(ctx)
	authors, err := l.Authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	groups, err := l.Groups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	out := make([]PostView, len(posts))
	for i, p := range posts {
		out[i] = PostView{Post: p, Author: authors[p.AuthorID]}
		if p.GroupID != nil {
			out[i].Group = groups[*p.GroupID]
		}
	}
	return out, nil
}

func postPage(ctx context.Context, page services.PostPage) (paginator.Page[PostView], error) {
	items, err := postViews(ctx, page.Items)
	if err != nil {
		return paginator.Page[PostView]{}, err
	}
	byID := make(map[int]PostView, len(items))
	for _, pv := range items {
		byID[pv.ID] = pv
	}
	return paginator.Map(page, func(p *models.Post) PostView {
		return byID[p.ID]
	}), nil
}

func commentViews(ctx context.Context, comments []*models.Comment) ([]CommentView, error) {
	ids := make([]int, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := loaders.For(ctx).Authors(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]CommentView, len(comments))
	for i, c := range comments {
		out[i] = CommentView{Comment: c, Author: authors[c.AuthorID]}
	}
	return out, nil
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
