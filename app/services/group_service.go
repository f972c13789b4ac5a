package services

import (
	"context"
	"errors"
	"strings"

	"yatube/app/models"
	"yatube/app/repositories"
)

// GroupService lists and seeds groups.
type GroupService struct {
	groups repositories.GroupRepository
}

func NewGroupService(repos repositories.Repositories) *GroupService {
	return &GroupService{groups: repos.Groups}
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groups.List(ctx)
}

// CreateGroup validates and stores a group. A taken slug is reported as a field error.
func (s *GroupService) CreateGroup(ctx context.Context, group *models.Group) error {
	group.Title = strings.TrimSpace(group.Title)
	group.Slug = strings.TrimSpace(group.Slug)
	if err := group.Validate(); err != nil {
		return err
	}
	err := s.groups.Create(ctx, group)
	if errors.Is(err, repositories.ErrDuplicate) {
		return models.ValidationError{"slug": "Group with this slug already exists."}
	}
	return err
}
