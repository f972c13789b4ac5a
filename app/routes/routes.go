// Package routes wires repositories, services and controllers into the HTTP handler.
package routes

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"yatube/app/cache"
	"yatube/app/controllers"
	"yatube/app/loaders"
	"yatube/app/media"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

// HomeCachePrefix is the key prefix of cached home pages.
const HomeCachePrefix = "index_page"

// Options configures the application handler.
type Options struct {
	Repos        repositories.Repositories
	Media        *media.Store
	HomeCache    cache.Store
	HomeCacheTTL time.Duration
	SessionTTL   time.Duration

	CSRFKey       []byte
	CSRFEnabled   bool
	SecureCookies bool

	// Templates overrides the embedded templates when set.
	Templates fs.FS
}

// App is the assembled web application.
type App struct {
	Router    http.Handler
	HomeCache cache.Store
}

// ClearHomeCache drops every cached home page.
func (a *App) ClearHomeCache() {
	a.HomeCache.Clear()
}

// SetupRoutes defines the application's routes and returns the wrapped handler.
func SetupRoutes(opts Options) (*App, error) {
	if opts.HomeCache == nil {
		return nil, errors.New("home cache store is required")
	}
	if opts.CSRFEnabled && len(opts.CSRFKey) != 32 {
		return nil, errors.New("csrf key must be 32 bytes")
	}

	view, err := controllers.NewView(opts.Templates)
	if err != nil {
		return nil, err
	}

	var images services.ImageStore
	if opts.Media != nil {
		images = opts.Media
	}
	authService := services.NewAuthService(opts.Repos, opts.SessionTTL)
	postController := controllers.NewPostController(
		services.NewPostService(opts.Repos, images),
		services.NewCommentService(opts.Repos),
		services.NewGroupService(opts.Repos),
		view,
	)
	feedController := controllers.NewFeedController(services.NewFeedService(opts.Repos), view)
	followController := controllers.NewFollowController(services.NewFollowService(opts.Repos), view)
	authController := controllers.NewAuthController(authService, view, opts.SecureCookies)

	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = http.HandlerFunc(view.NotFound)

	login := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireLogin(h)
	}

	if opts.Media != nil {
		router.PathPrefix("/media/").Handler(opts.Media.Handler("/media/")).Methods("GET", "HEAD")
	}

	// Feeds
	homePage := middleware.CachePage(opts.HomeCache, HomeCachePrefix, opts.HomeCacheTTL)
	router.Handle("/", homePage(http.HandlerFunc(feedController.Index))).Methods("GET")
	router.HandleFunc("/group/{slug}/", feedController.Group).Methods("GET")
	router.HandleFunc("/profile/{username}/", feedController.Profile).Methods("GET")
	router.Handle("/follow/", login(feedController.Follow)).Methods("GET")
	router.Handle("/profile/{username}/follow/", login(followController.Follow)).Methods("GET")
	router.Handle("/profile/{username}/unfollow/", login(followController.Unfollow)).Methods("GET")

	// Posts web endpoints
	router.Handle("/create/", login(postController.New)).Methods("GET")
	router.Handle("/create/", login(postController.Create)).Methods("POST")
	posts := router.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("/{id:[0-9]+}/", postController.Show).Methods("GET")
	posts.Handle("/{id:[0-9]+}/edit/", login(postController.Edit)).Methods("GET")
	posts.Handle("/{id:[0-9]+}/edit/", login(postController.Update)).Methods("POST")
	posts.Handle("/{id:[0-9]+}/delete/", login(postController.Delete)).Methods("POST")
	posts.Handle("/{id:[0-9]+}/comment/", login(postController.AddComment)).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}/comment/", postController.CommentRedirect).Methods("GET")

	// Auth
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup/", authController.SignupForm).Methods("GET")
	auth.HandleFunc("/signup/", authController.Signup).Methods("POST")
	auth.HandleFunc("/login/", authController.LoginForm).Methods("GET")
	auth.HandleFunc("/login/", authController.Login).Methods("POST")
	auth.HandleFunc("/logout/", authController.Logout).Methods("GET")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts/", feedController.Index).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}/", postController.Show).Methods("GET")
	api.HandleFunc("/group/{slug}/", feedController.Group).Methods("GET")
	api.HandleFunc("/profile/{username}/", feedController.Profile).Methods("GET")

	var handler http.Handler = router
	if opts.CSRFEnabled {
		handler = middleware.CSRF(opts.CSRFKey, opts.SecureCookies, http.HandlerFunc(view.CSRFFailure))(handler)
	}
	handler = middleware.Authenticate(authService)(handler)
	handler = loaders.Middleware(opts.Repos, handler)
	handler = middleware.ContentTypeJSON(handler)
	handler = middleware.RecoverWith(http.HandlerFunc(view.ServerError))(handler)
	handler = middleware.Logger(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)

	return &App{Router: handler, HomeCache: opts.HomeCache}, nil
}
