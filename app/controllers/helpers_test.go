package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/app/loaders"
	"yatube/app/media"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/repositories/mock"
	"yatube/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	repos  repositories.Repositories
	auth   *services.AuthService
	router http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repos := mock.New()
	view, err := NewView(nil)
	require.NoError(t, err)

	auth := services.NewAuthService(repos, time.Hour)
	posts := NewPostController(
		services.NewPostService(repos, media.NewStore(t.TempDir())),
		services.NewCommentService(repos),
		services.NewGroupService(repos),
		view,
	)
	feeds := NewFeedController(services.NewFeedService(repos), view)
	follows := NewFollowController(services.NewFollowService(repos), view)
	auths := NewAuthController(auth, view, false)

	r := mux.NewRouter().StrictSlash(true)
	login := func(h http.HandlerFunc) http.Handler { return middleware.RequireLogin(h) }
	r.HandleFunc("/", feeds.Index).Methods("GET")
	r.HandleFunc("/api/posts/", feeds.Index).Methods("GET")
	r.HandleFunc("/group/{slug}/", feeds.Group).Methods("GET")
	r.HandleFunc("/profile/{username}/", feeds.Profile).Methods("GET")
	r.Handle("/follow/", login(feeds.Follow)).Methods("GET")
	r.Handle("/profile/{username}/follow/", login(follows.Follow)).Methods("GET")
	r.Handle("/profile/{username}/unfollow/", login(follows.Unfollow)).Methods("GET")
	r.HandleFunc("/posts/{id}/", posts.Show).Methods("GET")
	r.HandleFunc("/api/posts/{id}/", posts.Show).Methods("GET")
	r.Handle("/create/", login(posts.New)).Methods("GET")
	r.Handle("/create/", login(posts.Create)).Methods("POST")
	r.Handle("/posts/{id}/edit/", login(posts.Edit)).Methods("GET")
	r.Handle("/posts/{id}/edit/", login(posts.Update)).Methods("POST")
	r.Handle("/posts/{id}/delete/", login(posts.Delete)).Methods("POST")
	r.Handle("/posts/{id}/comment/", login(posts.AddComment)).Methods("POST")
	r.HandleFunc("/auth/login/", auths.LoginForm).Methods("GET")
	r.HandleFunc("/auth/login/", auths.Login).Methods("POST")
	r.HandleFunc("/auth/signup/", auths.Signup).Methods("POST")
	r.HandleFunc("/auth/logout/", auths.Logout).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(view.NotFound)

	handler := loaders.Middleware(repos, middleware.Authenticate(auth)(r))
	return &harness{repos: repos, auth: auth, router: handler}
}

func (h *harness) user(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, PasswordHash: string(hash), CreatedAt: time.Now()}
	require.NoError(t, h.repos.Users.Create(context.Background(), u))
	return u
}

func (h *harness) post(t *testing.T, author *models.User, text string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Text: text, CreatedAt: time.Now()}
	require.NoError(t, h.repos.Posts.Create(context.Background(), p))
	return p
}

func (h *harness) cookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	session, err := h.auth.StartSession(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: session.Token}
}

func (h *harness) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}
