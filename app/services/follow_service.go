package services

import (
	"context"
	"fmt"

	"yatube/app/models"
	"yatube/app/repositories"
)

// FollowService manages subscriptions between users and authors.
type FollowService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
}

func NewFollowService(repos repositories.Repositories) *FollowService {
	return &FollowService{users: repos.Users, follows: repos.Follows}
}

// Follow subscribes viewer to username. Following yourself or an author you
// already follow changes nothing.
func (s *FollowService) Follow(ctx context.Context, viewer *models.User, username string) (*models.User, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("author %q: %w", username, err)
	}
	if author.ID == viewer.ID {
		return author, nil
	}

	follow := &models.Follow{UserID: viewer.ID, AuthorID: author.ID}
	if err := follow.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.follows.Create(ctx, follow); err != nil {
		return nil, fmt.Errorf("failed to follow %q: %w", username, err)
	}
	return author, nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, viewer *models.User, username string) (*models.User, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("author %q: %w", username, err)
	}
	if _, err := s.follows.Delete(ctx, viewer.ID, author.ID); err != nil {
		return nil, fmt.Errorf("failed to unfollow %q: %w", username, err)
	}
	return author, nil
}
