package middleware

import (
	"context"
	"net/http"
	"net/url"

	"yatube/app/models"
)

// SessionCookie is the name of the login cookie.
const SessionCookie = "sessionid"

// LoginURL is where anonymous users are sent.
const LoginURL = "/auth/login/"

type userKey struct{}

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey{}).(*models.User)
	return user
}

// Authenticate resolves the session cookie. Unknown or expired sessions leave the request anonymous.
func Authenticate(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err == nil && cookie.Value != "" {
				if user, err := sessions.CurrentUser(r.Context(), cookie.Value); err == nil {
					r = r.WithContext(WithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects anonymous users to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToLogin sends the client to the login page with the current path as next.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}
