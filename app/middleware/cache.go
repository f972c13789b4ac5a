package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"yatube/app/cache"
)

// CacheHeader reports whether a response came from the page cache.
const CacheHeader = "X-Cache"

// pageRecorder tees the response body while passing it through.
type pageRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *pageRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// MaxCachedPage is the highest page number that gets its own cache entry.
// Requests for later pages are rendered without the cache.
const MaxCachedPage = 50

// PageKey builds the cache key for a request: prefix, viewer, normalized page number
// and response format. Page numbers below 1 all render the last page and share one key.
// ok is false when the page is past MaxCachedPage.
func PageKey(prefix string, r *http.Request) (key string, ok bool) {
	viewer := "anon"
	if user := CurrentUser(r.Context()); user != nil {
		viewer = "user" + strconv.Itoa(user.ID)
	}
	page := "1"
	if n, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page"))); err == nil {
		switch {
		case n < 1:
			page = "last"
		case n > MaxCachedPage:
			return "", false
		default:
			page = strconv.Itoa(n)
		}
	}
	key = prefix + ":" + viewer + ":page=" + page
	if wantsJSON(r) {
		key += ":fmt=json"
	}
	return key, true
}

// wantsJSON matches the content negotiation of the page handlers.
func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

// CachePage serves GET responses from store for ttl. Only 200 responses are stored.
// Nothing invalidates an entry early except clearing the store.
func CachePage(store cache.Store, prefix string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key, cacheable := PageKey(prefix, r)
			if !cacheable {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Accept")
			if raw, ok := store.Get(key); ok {
				if contentType, body, ok := decodePage(raw); ok {
					w.Header().Set("Content-Type", contentType)
					w.Header().Set(CacheHeader, "HIT")
					w.WriteHeader(http.StatusOK)
					w.Write(body)
					return
				}
			}

			w.Header().Set(CacheHeader, "MISS")
			rec := &pageRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == http.StatusOK || rec.status == 0 {
				store.Set(key, encodePage(w.Header().Get("Content-Type"), rec.body.Bytes()), ttl)
			}
		})
	}
}

// A stored page is the content type, a newline, then the body.
func encodePage(contentType string, body []byte) []byte {
	out := make([]byte, 0, len(contentType)+1+len(body))
	out = append(out, contentType...)
	out = append(out, '\n')
	return append(out, body...)
}

func decodePage(raw []byte) (string, []byte, bool) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return "", nil, false
	}
	return string(raw[:i]), raw[i+1:], true
}
