package repositories

import (
	"context"
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerFollowRepository implements FollowRepository using BadgerDB.
// Edges live under follow:<user>:<author>, so the key itself enforces one edge per pair.
type BadgerFollowRepository struct {
	db *badger.DB
}

func NewBadgerFollowRepository(db *badger.DB) *BadgerFollowRepository {
	return &BadgerFollowRepository{db: db}
}

func (r *BadgerFollowRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	follow.BeforeCreate()
	var created bool
	err := update(r.db, func(txn *badger.Txn) error {
		created = false
		key := pairKey(FollowKeyPrefix, follow.UserID, follow.AuthorID)
		found, err := exists(txn, key)
		if err != nil || found {
			return err
		}

		id, err := getNextID(txn, FollowSeqKey)
		if err != nil {
			return err
		}
		follow.ID = id

		data, err := marshalEntity(follow)
		if err != nil {
			return err
		}
		created = true
		return txn.Set(key, data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *BadgerFollowRepository) Delete(ctx context.Context, userID, authorID int) (bool, error) {
	var deleted bool
	err := update(r.db, func(txn *badger.Txn) error {
		deleted = false
		key := pairKey(FollowKeyPrefix, userID, authorID)
		found, err := exists(txn, key)
		if err != nil || !found {
			return err
		}
		deleted = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *BadgerFollowRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = exists(txn, pairKey(FollowKeyPrefix, userID, authorID))
		return err
	})
	return found, err
}

// ListAuthorIDs returns the ids of every author userID follows.
func (r *BadgerFollowRepository) ListAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	ids := []int{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, pairPrefix(FollowKeyPrefix, userID), func(_, val []byte) error {
			var follow models.Follow
			if err := unmarshalEntity(val, &follow); err != nil {
				return fmt.Errorf("failed to unmarshal follow: %w", err)
			}
			ids = append(ids, follow.AuthorID)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *BadgerFollowRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(FollowKeyPrefix)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
