package repositories

import (
	"context"
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		// Save comment with post ID in key for efficient listing
		return txn.Set(pairKey(CommentKeyPrefix, comment.PostID, comment.ID), data)
	})
}

// findComment scans for the comment with id and returns it with its key.
func findComment(txn *badger.Txn, id int) (*models.Comment, []byte, error) {
	var (
		found *models.Comment
		key   []byte
	)
	err := scanPrefix(txn, []byte(CommentKeyPrefix), func(k, val []byte) error {
		if found != nil {
			return nil
		}
		var comment models.Comment
		if err := unmarshalEntity(val, &comment); err != nil {
			return fmt.Errorf("failed to unmarshal comment: %w", err)
		}
		if comment.ID == id {
			found, key = &comment, k
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if found == nil {
		return nil, nil, ErrNotFound
	}
	return found, key, nil
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment *models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		comment, _, err = findComment(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, pairPrefix(CommentKeyPrefix, postID), func(_, val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	models.SortOldestFirst(comments)
	return comments, nil
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		_, key, err := findComment(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// DeleteByPost deletes every comment of a post
func (r *BadgerCommentRepository) DeleteByPost(ctx context.Context, postID int) error {
	return update(r.db, func(txn *badger.Txn) error {
		var keys [][]byte
		err := scanPrefix(txn, pairPrefix(CommentKeyPrefix, postID), func(k, _ []byte) error {
			keys = append(keys, k)
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
