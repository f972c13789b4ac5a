package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(repos repositories.Repositories) *CommentService {
	return &CommentService{
		commentRepo: repos.Comments,
		postRepo:    repos.Posts,
		now:         time.Now,
	}
}

// AddComment stores a comment by author on the post. Blank text is a validation error
// and nothing is stored.
func (s *CommentService) AddComment(ctx context.Context, author *models.User, postID int, text string) (*models.Comment, error) {
	if author == nil {
		return nil, ErrUnauthorized
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}

	comment := &models.Comment{
		AuthorID:  author.ID,
		Text:      strings.TrimSpace(text),
		CreatedAt: s.now().UTC(),
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListPostComments retrieves all comments for a post, oldest first.
func (s *CommentService) ListPostComments(ctx context.Context, postID int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}
