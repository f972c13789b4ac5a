package controllers

import (
	"net/http"

	"yatube/app/middleware"
	"yatube/app/services"

	"github.com/gorilla/mux"
)

// FeedController serves the paginated post listings.
type FeedController struct {
	feeds *services.FeedService
	view  *View
}

func NewFeedController(feeds *services.FeedService, view *View) *FeedController {
	return &FeedController{feeds: feeds, view: view}
}

// Index handles the home feed
func (fc *FeedController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := fc.feeds.Home(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}
	fc.render(w, r, "index", page, &viewData{}, nil)
}

// Group handles the feed of one group
func (fc *FeedController) Group(w http.ResponseWriter, r *http.Request) {
	feed, err := fc.feeds.Group(r.Context(), mux.Vars(r)["slug"], r.URL.Query().Get("page"))
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}
	data := &viewData{Group: feed.Group}
	fc.render(w, r, "group_list", feed.Page, data, func(out *apiFeed) {
		out.Group = &apiGroup{Title: feed.Group.Title, Slug: feed.Group.Slug, Description: feed.Group.Description}
	})
}

// Profile handles the feed of one author
func (fc *FeedController) Profile(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.CurrentUser(r.Context())
	feed, err := fc.feeds.Profile(r.Context(), mux.Vars(r)["username"], viewer, r.URL.Query().Get("page"))
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}
	data := &viewData{Author: feed.Author, PostCount: feed.PostCount, Following: feed.Following}
	fc.render(w, r, "profile", feed.Page, data, func(out *apiFeed) {
		out.Author = &apiAuthor{
			Username:  feed.Author.Username,
			FullName:  feed.Author.FullName(),
			PostCount: feed.PostCount,
			Following: feed.Following,
		}
	})
}

// Follow handles the feed of followed authors
func (fc *FeedController) Follow(w http.ResponseWriter, r *http.Request) {
	page, err := fc.feeds.Following(r.Context(), middleware.CurrentUser(r.Context()), r.URL.Query().Get("page"))
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}
	fc.render(w, r, "follow", page, &viewData{}, nil)
}

func (fc *FeedController) render(w http.ResponseWriter, r *http.Request, name string, page services.PostPage, data *viewData, decorate func(*apiFeed)) {
	views, err := postPage(r.Context(), page)
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}

	if wantsJSON(r) {
		out := toAPIFeed(views)
		if decorate != nil {
			decorate(&out)
		}
		sendJSON(w, out)
		return
	}
	data.Page = views
	fc.view.Render(w, r, name, http.StatusOK, data)
}
