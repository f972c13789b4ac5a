package repositories

import (
	"context"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository implements SessionRepository with badger entry TTLs.
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, now: time.Now}
}

func (r *BadgerSessionRepository) Create(ctx context.Context, session *models.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return ErrSessionExpired
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(SessionKeyPrefix+session.Token), data).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

func (r *BadgerSessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, []byte(SessionKeyPrefix+token), &session)
	})
	if err != nil {
		return nil, err
	}
	if session.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (r *BadgerSessionRepository) Delete(ctx context.Context, token string) error {
	return update(r.db, func(txn *badger.Txn) error {
		return txn.Delete([]byte(SessionKeyPrefix + token))
	})
}
