package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/services"
)

// AuthController handles signup, login and logout.
type AuthController struct {
	auth          *services.AuthService
	view          *View
	secureCookies bool
}

func NewAuthController(auth *services.AuthService, view *View, secureCookies bool) *AuthController {
	return &AuthController{auth: auth, view: view, secureCookies: secureCookies}
}

func (ac *AuthController) SignupForm(w http.ResponseWriter, r *http.Request) {
	ac.view.Render(w, r, "signup", http.StatusOK, nil)
}

// Signup registers a user and logs them in.
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	in := services.SignupInput{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
	}
	user, err := ac.auth.Signup(r.Context(), in)
	if ve, ok := models.AsValidationError(err); ok {
		ac.view.Render(w, r, "signup", http.StatusOK, &viewData{
			Form:   formData{Username: in.Username, FirstName: in.FirstName, LastName: in.LastName},
			Errors: ve,
		})
		return
	}
	if err != nil {
		ac.view.handleError(w, r, err)
		return
	}

	session, err := ac.auth.StartSession(r.Context(), user)
	if err != nil {
		ac.view.handleError(w, r, err)
		return
	}
	ac.setSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.view.Render(w, r, "login", http.StatusOK, &viewData{Next: r.URL.Query().Get("next")})
}

// Login checks the credentials and redirects to next when it is a local path.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	next := r.PostFormValue("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}

	session, err := ac.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.view.Render(w, r, "login", http.StatusOK, &viewData{
			Next:   next,
			Form:   formData{Username: username},
			Errors: models.ValidationError{"__all__": "Please enter a correct username and password."},
		})
		return
	}
	if err != nil {
		ac.view.handleError(w, r, err)
		return
	}
	ac.setSessionCookie(w, session)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := ac.auth.Logout(r.Context(), cookie.Value); err != nil {
			ac.view.handleError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   ac.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ac *AuthController) setSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   ac.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext only allows redirects to paths on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
