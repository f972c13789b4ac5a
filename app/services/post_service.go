package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
)

// ImageStore persists uploaded images and returns their stored name.
type ImageStore interface {
	Save(r io.Reader) (string, error)
	Remove(name string) error
}

// PostInput carries the editable fields of a post form.
type PostInput struct {
	Text    string
	GroupID *int
	// Image is nil when no file was uploaded.
	Image io.Reader
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	groupRepo   repositories.GroupRepository
	images      ImageStore
	now         func() time.Time
}

// NewPostService creates a new PostService. images may be nil, in which case uploads are rejected.
func NewPostService(repos repositories.Repositories, images ImageStore) *PostService {
	return &PostService{
		postRepo:    repos.Posts,
		commentRepo: repos.Comments,
		groupRepo:   repos.Groups,
		images:      images,
		now:         time.Now,
	}
}

// CreatePost validates in and stores a new post by author.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if author == nil {
		return nil, ErrUnauthorized
	}
	post := &models.Post{
		AuthorID:  author.ID,
		Text:      in.Text,
		GroupID:   in.GroupID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.validatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachImage(post, in.Image); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeImage(post.Image)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// EditablePost returns the post when editor is its author.
func (s *PostService) EditablePost(ctx context.Context, editor *models.User, id int) (*models.Post, error) {
	if editor == nil {
		return nil, ErrUnauthorized
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	if post.AuthorID != editor.ID {
		return post, ErrForbidden
	}
	return post, nil
}

// UpdatePost applies in to the post. Only the author may edit; the creation time is preserved.
// A nil in.Image keeps the current image.
func (s *PostService) UpdatePost(ctx context.Context, editor *models.User, id int, in PostInput) (*models.Post, error) {
	existing, err := s.EditablePost(ctx, editor, id)
	if err != nil {
		return existing, err
	}

	updated := *existing
	updated.Text = in.Text
	updated.GroupID = in.GroupID
	if err := s.validatePost(ctx, &updated); err != nil {
		return existing, err
	}
	if err := s.attachImage(&updated, in.Image); err != nil {
		return existing, err
	}
	if err := s.postRepo.Update(ctx, &updated); err != nil {
		if updated.Image != existing.Image {
			s.removeImage(updated.Image)
		}
		return existing, fmt.Errorf("failed to update post: %w", err)
	}
	if updated.Image != existing.Image {
		s.removeImage(existing.Image)
	}
	return &updated, nil
}

// DeletePost deletes a post and all its comments. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, id int) error {
	post, err := s.EditablePost(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.commentRepo.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(post.Image)
	return nil
}

// validatePost collects field errors for text and group.
func (s *PostService) validatePost(ctx context.Context, post *models.Post) error {
	post.Text = strings.TrimSpace(post.Text)
	ve := models.ValidationError{}
	if err := post.Validate(); err != nil {
		fieldErrs, ok := models.AsValidationError(err)
		if !ok {
			return err
		}
		for field, msg := range fieldErrs {
			if field == "group_id" {
				field = "group"
			}
			ve.Add(field, msg)
		}
	}
	if post.GroupID != nil {
		_, err := s.groupRepo.GetByID(ctx, *post.GroupID)
		if errors.Is(err, repositories.ErrNotFound) {
			ve.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		} else if err != nil {
			return err
		}
	}
	if len(ve) > 0 {
		return ve
	}
	return nil
}

func (s *PostService) attachImage(post *models.Post, image io.Reader) error {
	if image == nil {
		return nil
	}
	if s.images == nil {
		return models.ValidationError{"image": "Image uploads are disabled."}
	}
	name, err := s.images.Save(image)
	if err != nil {
		return err
	}
	post.Image = name
	return nil
}

// removeImage deletes a stored image. Failures leave an unreferenced file behind and are ignored.
func (s *PostService) removeImage(name string) {
	if name == "" || s.images == nil {
		return
	}
	_ = s.images.Remove(name)
}
