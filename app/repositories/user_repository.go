package repositories

import (
	"context"
	"errors"
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB.
type BadgerUserRepository struct {
	db *badger.DB
}

func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	return update(r.db, func(txn *badger.Txn) error {
		nameKey := []byte(UsernameKeyPrefix + user.Username)
		taken, err := exists(txn, nameKey)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		if err := txn.Set(idKey(UserKeyPrefix, id), data); err != nil {
			return err
		}
		return txn.Set(nameKey, encodeID(id))
	})
}

func (r *BadgerUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BadgerUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(UsernameKeyPrefix + username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id int
		if err := item.Value(func(val []byte) error {
			id, err = decodeID(val)
			return err
		}); err != nil {
			return err
		}
		return getEntity(txn, idKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs returns the users that exist among ids, keyed by id.
func (r *BadgerUserRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.User, error) {
	out := make(map[int]*models.User, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var user models.User
			err := getEntity(txn, idKey(UserKeyPrefix, id), &user)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out[id] = &user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
