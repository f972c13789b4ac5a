package repositories

import (
	"context"
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(idKey(PostKeyPrefix, post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post matching filter, newest first
func (r *BadgerPostRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	posts := []*models.Post{}
	if filter.AuthorIDs != nil && len(filter.AuthorIDs) == 0 {
		return posts, nil
	}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(PostKeyPrefix), func(_, val []byte) error {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if post.Matches(filter) {
				posts = append(posts, &post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	models.SortNewestFirst(posts)
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := idKey(PostKeyPrefix, post.ID)

		// Verify post exists
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		key := idKey(PostKeyPrefix, id)

		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return txn.Delete(key)
	})
}
