package repositories

import (
	"context"
	"errors"

	"yatube/app/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrSessionExpired is returned when storing a session whose expiry has passed.
	ErrSessionExpired = errors.New("session already expired")
)

// PostRepository defines the interface for post data access.
// List returns posts newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
}

// CommentRepository defines the interface for comment data access.
// ListByPost returns comments oldest first.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
	Delete(ctx context.Context, id int) error
	DeleteByPost(ctx context.Context, postID int) error
}

// GroupRepository defines the interface for group data access.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.User, error)
}

// FollowRepository stores follow edges. At most one edge exists per (user, author) pair.
type FollowRepository interface {
	// Create reports false when the edge already existed.
	Create(ctx context.Context, follow *models.Follow) (bool, error)
	// Delete reports false when there was no edge to delete.
	Delete(ctx context.Context, userID, authorID int) (bool, error)
	Exists(ctx context.Context, userID, authorID int) (bool, error)
	ListAuthorIDs(ctx context.Context, userID int) ([]int, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository stores login sessions. Get treats expired sessions as missing.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Posts    PostRepository
	Comments CommentRepository
	Groups   GroupRepository
	Users    UserRepository
	Follows  FollowRepository
	Sessions SessionRepository
}
