package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRF protects unsafe methods with a token. Failures are served by failure.
// When secure is false requests are treated as plain HTTP, so the TLS-only
// referer check is skipped.
func CSRF(key []byte, secure bool, failure http.Handler) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.CookieName("csrftoken"),
		csrf.FieldName("csrfmiddlewaretoken"),
		csrf.ErrorHandler(failure),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// CSRFFailureReason returns why the request failed the CSRF check.
func CSRFFailureReason(r *http.Request) string {
	if err := csrf.FailureReason(r); err != nil {
		return err.Error()
	}
	return ""
}
