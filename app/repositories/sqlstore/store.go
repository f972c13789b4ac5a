// Package sqlstore implements the repositories on PostgreSQL through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store holds the gorm connection shared by every repository.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New connects to dsn and migrates the schema.
func New(dsn string, debug bool) (*Store, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return Open(db)
}

// Open wraps an existing connection and migrates the schema.
func Open(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Post{},
		&models.Comment{}, &models.Follow{}, &models.Session{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Repositories returns every repository backed by s.
func (s *Store) Repositories() repositories.Repositories {
	return repositories.Repositories{
		Posts:    &PostRepository{s},
		Comments: &CommentRepository{s},
		Groups:   &GroupRepository{s},
		Users:    &UserRepository{s},
		Follows:  &FollowRepository{s},
		Sessions: &SessionRepository{s},
	}
}

// mapError converts gorm errors into the repository sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	default:
		return err
	}
}

type PostRepository struct{ s *Store }

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()
	return mapError(r.s.db.WithContext(ctx).Create(post).Error)
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	posts := []*models.Post{}
	if filter.AuthorIDs != nil && len(filter.AuthorIDs) == 0 {
		return posts, nil
	}
	query := r.s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if filter.GroupID != 0 {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if filter.AuthorIDs != nil {
		query = query.Where("author_id IN ?", filter.AuthorIDs)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).
		Select("text", "group_id", "image").
		Updates(post)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	res := r.s.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.BeforeCreate()
	return mapError(r.s.db.WithContext(ctx).Create(comment).Error)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res := r.s.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID int) error {
	return r.s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}

type GroupRepository struct{ s *Store }

func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	return mapError(r.s.db.WithContext(ctx).Create(group).Error)
}

func (r *GroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	var group models.Group
	if err := r.s.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &group, nil
}

func (r *GroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.s.db.WithContext(ctx).First(&group, "slug = ?", slug).Error; err != nil {
		return nil, mapError(err)
	}
	return &group, nil
}

func (r *GroupRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Group, error) {
	var groups []*models.Group
	if err := r.s.db.WithContext(ctx).Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}
	out := make(map[int]*models.Group, len(groups))
	for _, g := range groups {
		out[g.ID] = g
	}
	return out, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	groups := []*models.Group{}
	err := r.s.db.WithContext(ctx).Order("id ASC").Find(&groups).Error
	return groups, err
}

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.BeforeCreate()
	return mapError(r.s.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.User, error) {
	var users []*models.User
	if err := r.s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[int]*models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

type FollowRepository struct{ s *Store }

// Create inserts the edge unless the (user, author) unique index already holds it.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	follow.BeforeCreate()
	res := r.s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow)
	if res.Error != nil {
		return false, mapError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID, authorID int) (bool, error) {
	res := r.s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	var n int64
	err := r.s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n > 0, err
}

func (r *FollowRepository) ListAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	ids := []int{}
	err := r.s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("author_id ASC").
		Pluck("author_id", &ids).Error
	return ids, err
}

func (r *FollowRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.s.db.WithContext(ctx).Model(&models.Follow{}).Count(&n).Error
	return int(n), err
}

type SessionRepository struct{ s *Store }

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.Expired(r.s.now()) {
		return repositories.ErrSessionExpired
	}
	return mapError(r.s.db.WithContext(ctx).Create(session).Error)
}

func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, r.s.now()).
		First(&session).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	return r.s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}
