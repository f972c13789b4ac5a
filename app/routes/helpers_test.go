package routes

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"yatube/app/cache"
	"yatube/app/media"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/services"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testApp struct {
	*App
	repos repositories.Repositories
	clock *fakeClock
	auth  *services.AuthService
}

func setupTestApp(t *testing.T, configure func(*Options)) *testApp {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	db, err := repositories.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repos := repositories.NewBadgerRepositories(db)

	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	opts := Options{
		Repos:        repos,
		Media:        media.NewStore(t.TempDir()),
		HomeCache:    cache.NewMemory(clock.Now),
		HomeCacheTTL: 20 * time.Second,
		SessionTTL:   time.Hour,
	}
	if configure != nil {
		configure(&opts)
	}
	app, err := SetupRoutes(opts)
	require.NoError(t, err)

	return &testApp{
		App:   app,
		repos: repos,
		clock: clock,
		auth:  services.NewAuthService(repos, time.Hour),
	}
}

func (a *testApp) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, a.repos.Users.Create(context.Background(), u))
	return u
}

func (a *testApp) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, a.repos.Groups.Create(context.Background(), g))
	return g
}

func (a *testApp) createPost(t *testing.T, author *models.User, text string, at time.Time, group *models.Group) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Text: text, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, a.repos.Posts.Create(context.Background(), p))
	return p
}

func (a *testApp) login(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	session, err := a.auth.StartSession(context.Background(), user)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: session.Token}
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func (a *testApp) countPosts(t *testing.T) int {
	t.Helper()
	posts, err := a.repos.Posts.List(context.Background(), models.PostFilter{})
	require.NoError(t, err)
	return len(posts)
}
