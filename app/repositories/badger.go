package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens the database at path. An empty path opens an in-memory database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return db, nil
}

// NewBadgerRepositories wires every badger-backed repository to db.
func NewBadgerRepositories(db *badger.DB) Repositories {
	return Repositories{
		Posts:    NewBadgerPostRepository(db),
		Comments: NewBadgerCommentRepository(db),
		Groups:   NewBadgerGroupRepository(db),
		Users:    NewBadgerUserRepository(db),
		Follows:  NewBadgerFollowRepository(db),
		Sessions: NewBadgerSessionRepository(db),
	}
}
