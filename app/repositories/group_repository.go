package repositories

import (
	"context"
	"errors"
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerGroupRepository implements GroupRepository using BadgerDB.
// Slugs are unique through a group_slug:<slug> -> id index.
type BadgerGroupRepository struct {
	db *badger.DB
}

func NewBadgerGroupRepository(db *badger.DB) *BadgerGroupRepository {
	return &BadgerGroupRepository{db: db}
}

func (r *BadgerGroupRepository) Create(ctx context.Context, group *models.Group) error {
	return update(r.db, func(txn *badger.Txn) error {
		slugKey := []byte(GroupSlugKeyPrefix + group.Slug)
		taken, err := exists(txn, slugKey)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("group slug %q: %w", group.Slug, ErrDuplicate)
		}

		id, err := getNextID(txn, GroupSeqKey)
		if err != nil {
			return err
		}
		group.ID = id

		data, err := marshalEntity(group)
		if err != nil {
			return err
		}
		if err := txn.Set(idKey(GroupKeyPrefix, id), data); err != nil {
			return err
		}
		return txn.Set(slugKey, encodeID(id))
	})
}

func (r *BadgerGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *BadgerGroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(GroupSlugKeyPrefix + slug))
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
		return getEntity(txn, idKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByIDs returns the groups that exist among ids, keyed by id.
func (r *BadgerGroupRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Group, error) {
	out := make(map[int]*models.Group, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var group models.Group
			err := getEntity(txn, idKey(GroupKeyPrefix, id), &group)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out[id] = &group
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns all groups ordered by id.
func (r *BadgerGroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	groups := []*models.Group{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(GroupKeyPrefix), func(_, val []byte) error {
			var group models.Group
			if err := unmarshalEntity(val, &group); err != nil {
				return err
			}
			groups = append(groups, &group)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}
