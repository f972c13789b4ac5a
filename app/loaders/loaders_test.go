package loaders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUsers struct {
	repositories.UserRepository
	calls int32
}

func (c *countingUsers) GetByIDs(ctx context.Context, ids []int) (map[int]*models.User, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.UserRepository.GetByIDs(ctx, ids)
}

func TestLoaders(t *testing.T) {
	ctx := context.Background()
	repos := mock.New()
	leo := &models.User{Username: "leo", PasswordHash: "h"}
	anna := &models.User{Username: "anna", PasswordHash: "h"}
	require.NoError(t, repos.Users.Create(ctx, leo))
	require.NoError(t, repos.Users.Create(ctx, anna))
	cats := &models.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, repos.Groups.Create(ctx, cats))

	batchWait = 20 * time.Millisecond
	t.Cleanup(func() { batchWait = time.Millisecond })

	users := &countingUsers{UserRepository: repos.Users}
	l := New(users, repos.Groups)

	t.Run("authors in one batch", func(t *testing.T) {
		got, err := l.Authors(ctx, []int{leo.ID, anna.ID, leo.ID, 99})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "anna", got[anna.ID].Username)
		assert.Equal(t, int32(1), atomic.LoadInt32(&users.calls))
	})

	t.Run("repeated loads are cached", func(t *testing.T) {
		_, err := l.Authors(ctx, []int{leo.ID})
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&users.calls))
	})

	t.Run("groups", func(t *testing.T) {
		got, err := l.Groups(ctx, []int{cats.ID, 42})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "cats", got[cats.ID].Slug)
	})

	t.Run("no ids", func(t *testing.T) {
		got, err := l.Groups(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMiddleware(t *testing.T) {
	repos := mock.New()
	var first, second *Loaders
	handler := Middleware(repos, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first == nil {
			first = For(r.Context())
		} else {
			second = For(r.Context())
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
}
