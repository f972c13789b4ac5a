package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"yatube/app/cache"
	"yatube/app/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutesRequiresCache(t *testing.T) {
	_, err := SetupRoutes(Options{})
	assert.Error(t, err)

	_, err = SetupRoutes(Options{HomeCache: cache.NewMemory(nil), CSRFEnabled: true, CSRFKey: []byte("short")})
	assert.Error(t, err)
}

func TestFeedPagination(t *testing.T) {
	app := setupTestApp(t, nil)
	leo := app.createUser(t, "leo")
	group := app.createGroup(t, "novels")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		app.createPost(t, leo, fmt.Sprintf("entry-%02d", i), base.Add(time.Duration(i)*time.Hour), group)
	}

	for _, path := range []string{"/", "/group/novels/", "/profile/leo/"} {
		t.Run(path, func(t *testing.T) {
			app.ClearHomeCache()
			first := app.get(path, nil)
			require.Equal(t, http.StatusOK, first.Code)
			assert.Equal(t, 10, strings.Count(first.Body.String(), `class="post"`))
			assert.Contains(t, first.Body.String(), "entry-12")
			assert.NotContains(t, first.Body.String(), "entry-02")

			second := app.get(path+"?page=2", nil)
			require.Equal(t, http.StatusOK, second.Code)
			assert.Equal(t, 3, strings.Count(second.Body.String(), `class="post"`))
			assert.Contains(t, second.Body.String(), "entry-00")
		})
	}

	t.Run("out of range pages fall back to the last page", func(t *testing.T) {
		for _, page := range []string{"99", "0", "-3"} {
			w := app.get("/group/novels/?page="+page, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 3, strings.Count(w.Body.String(), `class="post"`), page)
		}
		w := app.get("/group/novels/?page=abc", nil)
		assert.Equal(t, 10, strings.Count(w.Body.String(), `class="post"`))
	})
}

func TestHomeCache(t *testing.T) {
	app := setupTestApp(t, nil)
	leo := app.createUser(t, "leo")
	old := app.createPost(t, leo, "cached entry", time.Now(), nil)

	first := app.get("/", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(middleware.CacheHeader))
	assert.Contains(t, first.Body.String(), "cached entry")

	fresh := app.createPost(t, leo, "fresh entry", time.Now(), nil)
	w := app.get("/", nil)
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheHeader))
	assert.Equal(t, first.Body.String(), w.Body.String())

	require.NoError(t, app.repos.Posts.Delete(context.Background(), old.ID))
	w = app.get("/", nil)
	assert.Equal(t, first.Body.String(), w.Body.String())

	app.ClearHomeCache()
	w = app.get("/", nil)
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
	assert.NotEqual(t, first.Body.String(), w.Body.String())
	assert.Contains(t, w.Body.String(), "fresh entry")
	assert.NotContains(t, w.Body.String(), "cached entry")

	require.NoError(t, app.repos.Posts.Delete(context.Background(), fresh.ID))
	app.clock.Advance(19 * time.Second)
	assert.Equal(t, "HIT", app.get("/", nil).Header().Get(middleware.CacheHeader))
	app.clock.Advance(2 * time.Second)
	w = app.get("/", nil)
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
	assert.Contains(t, w.Body.String(), "No posts yet.")
}

func TestHomeCacheKeys(t *testing.T) {
	app := setupTestApp(t, nil)
	leo := app.createUser(t, "leo")
	for i := 0; i < 13; i++ {
		app.createPost(t, leo, "entry-"+strconv.Itoa(i), time.Now().Add(time.Duration(i)*time.Minute), nil)
	}

	page1 := app.get("/", nil)
	page2 := app.get("/?page=2", nil)
	assert.Equal(t, "MISS", page2.Header().Get(middleware.CacheHeader))
	assert.Equal(t, 3, strings.Count(page2.Body.String(), `class="post"`))
	assert.NotEqual(t, page1.Body.String(), page2.Body.String())

	assert.Equal(t, "HIT", app.get("/?page=1", nil).Header().Get(middleware.CacheHeader))

	signedIn := app.get("/", app.login(t, leo))
	assert.Equal(t, "MISS", signedIn.Header().Get(middleware.CacheHeader))
	assert.Contains(t, signedIn.Body.String(), "Signed in as")
	assert.NotContains(t, app.get("/", nil).Body.String(), "Signed in as")
}

func TestHomeCacheSeparatesFormats(t *testing.T) {
	app := setupTestApp(t, nil)
	leo := app.createUser(t, "leo")
	app.createPost(t, leo, "negotiated entry", time.Now(), nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "application/json")
	api := httptest.NewRecorder()
	app.Router.ServeHTTP(api, req)
	require.Equal(t, http.StatusOK, api.Code)
	assert.Contains(t, api.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "MISS", api.Header().Get(middleware.CacheHeader))

	w := app.get("/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html")
	assert.Contains(t, w.Body.String(), "negotiated entry")

	again := httptest.NewRecorder()
	app.Router.ServeHTTP(again, req)
	assert.Equal(t, "HIT", again.Header().Get(middleware.CacheHeader))
	assert.Contains(t, again.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, api.Body.String(), again.Body.String())
}

func TestHomeCacheOutOfRangePages(t *testing.T) {
	app := setupTestApp(t, nil)
	leo := app.createUser(t, "leo")
	app.createPost(t, leo, "only entry", time.Now(), nil)

	for _, page := range []string{"0", "-1", "-500"} {
		require.Equal(t, http.StatusOK, app.get("/?page="+page, nil).Code)
	}
	assert.Equal(t, "HIT", app.get("/?page=-7", nil).Header().Get(middleware.CacheHeader))

	far := app.get(fmt.Sprintf("/?page=%d", middleware.MaxCachedPage+1), nil)
	require.Equal(t, http.StatusOK, far.Code)
	assert.Empty(t, far.Header().Get(middleware.CacheHeader))
	assert.Contains(t, far.Body.String(), "only entry")
}

func TestNotFound(t *testing.T) {
	app := setupTestApp(t, nil)
	for _, path := range []string{"/group/missing/", "/profile/nobody/", "/posts/404/", "/no/such/page/"} {
		w := app.get(path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Page not found", path)
	}

	w := app.get("/api/posts/404/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestPanicRecovery(t *testing.T) {
	app := setupTestApp(t, func(o *Options) {
		o.Repos.Posts = nil
	})
	// A nil repository panics inside the handler and is served the 500 page.
	w := app.get("/api/posts/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
