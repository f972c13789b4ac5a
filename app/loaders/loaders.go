// Package loaders batches the author and group lookups made while rendering a page.
package loaders

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"

	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// batchWait is how long a loader collects keys before querying.
var batchWait = time.Millisecond

// Loaders holds the request-scoped loaders.
type Loaders struct {
	AuthorByID *dataloader.Loader
	GroupByID  *dataloader.Loader
}

// New creates loaders backed by the given repositories.
func New(users repositories.UserRepository, groups repositories.GroupRepository) *Loaders {
	authorBatch := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		found, err := users.GetByIDs(ctx, keyIDs(keys))
		return results(keys, err, func(id int) interface{} {
			if u, ok := found[id]; ok {
				return u
			}
			return (*models.User)(nil)
		})
	}
	groupBatch := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		found, err := groups.GetByIDs(ctx, keyIDs(keys))
		return results(keys, err, func(id int) interface{} {
			if g, ok := found[id]; ok {
				return g
			}
			return (*models.Group)(nil)
		})
	}
	return &Loaders{
		AuthorByID: dataloader.NewBatchedLoader(authorBatch, dataloader.WithWait(batchWait)),
		GroupByID:  dataloader.NewBatchedLoader(groupBatch, dataloader.WithWait(batchWait)),
	}
}

// Middleware puts fresh loaders into every request context.
func Middleware(repos repositories.Repositories, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), key, New(repos.Users, repos.Groups))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// For extracts the loaders from ctx.
func For(ctx context.Context) *Loaders {
	return ctx.Value(key).(*Loaders)
}

// Authors loads every user in ids. Missing users are absent from the map.
func (l *Loaders) Authors(ctx context.Context, ids []int) (map[int]*models.User, error) {
	out := make(map[int]*models.User, len(ids))
	values, err := loadMany(ctx, l.AuthorByID, ids)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if u, _ := v.(*models.User); u != nil {
			out[ids[i]] = u
		}
	}
	return out, nil
}

// Groups loads every group in ids. Missing groups are absent from the map.
func (l *Loaders) Groups(ctx context.Context, ids []int) (map[int]*models.Group, error) {
	out := make(map[int]*models.Group, len(ids))
	values, err := loadMany(ctx, l.GroupByID, ids)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if g, _ := v.(*models.Group); g != nil {
			out[ids[i]] = g
		}
	}
	return out, nil
}

func loadMany(ctx context.Context, loader *dataloader.Loader, ids []int) ([]interface{}, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make(dataloader.Keys, len(ids))
	for i, id := range ids {
		keys[i] = dataloader.StringKey(strconv.Itoa(id))
	}
	values, errs := loader.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

func keyIDs(keys dataloader.Keys) []int {
	ids := make([]int, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.Atoi(k.String())
		if err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func results(keys dataloader.Keys, err error, lookup func(id int) interface{}) []*dataloader.Result {
	out := make([]*dataloader.Result, len(keys))
	for i, k := range keys {
		if err != nil {
			out[i] = &dataloader.Result{Error: err}
			continue
		}
		id, _ := strconv.Atoi(k.String())
		out[i] = &dataloader.Result{Data: lookup(id)}
	}
	return out
}
