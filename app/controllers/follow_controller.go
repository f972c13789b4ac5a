package controllers

import (
	"net/http"
	"net/url"

	"yatube/app/middleware"
	"yatube/app/services"

	"github.com/gorilla/mux"
)

// FollowController subscribes and unsubscribes the current user.
type FollowController struct {
	follows *services.FollowService
	view    *View
}

func NewFollowController(follows *services.FollowService, view *View) *FollowController {
	return &FollowController{follows: follows, view: view}
}

func (fc *FollowController) Follow(w http.ResponseWriter, r *http.Request) {
	author, err := fc.follows.Follow(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["username"])
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

func (fc *FollowController) Unfollow(w http.ResponseWriter, r *http.Request) {
	author, err := fc.follows.Unfollow(r.Context(), middleware.CurrentUser(r.Context()), mux.Vars(r)["username"])
	if err != nil {
		fc.view.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
