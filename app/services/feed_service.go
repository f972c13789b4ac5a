package services

import (
	"context"
	"fmt"

	"yatube/app/models"
	"yatube/app/paginator"
	"yatube/app/repositories"
)

// PostPage is one page of a feed.
type PostPage = paginator.Page[*models.Post]

// GroupFeed is a page of a group's posts.
type GroupFeed struct {
	Group *models.Group
	Page  PostPage
}

// ProfileFeed is a page of one author's posts.
type ProfileFeed struct {
	Author    *models.User
	Page      PostPage
	PostCount int
	// Following is true only when the viewer is logged in and follows Author.
	Following bool
}

// FeedService assembles the home, group, profile and following feeds.
type FeedService struct {
	posts   repositories.PostRepository
	groups  repositories.GroupRepository
	users   repositories.UserRepository
	follows repositories.FollowRepository
	perPage int
}

func NewFeedService(repos repositories.Repositories) *FeedService {
	return &FeedService{
		posts:   repos.Posts,
		groups:  repos.Groups,
		users:   repos.Users,
		follows: repos.Follows,
		perPage: paginator.PerPage,
	}
}

// Home returns a page of every post, newest first.
func (s *FeedService) Home(ctx context.Context, page string) (PostPage, error) {
	return s.page(ctx, models.PostFilter{}, page)
}

// Group returns a page of the posts in the group with slug.
func (s *FeedService) Group(ctx context.Context, slug, page string) (*GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", slug, err)
	}
	p, err := s.page(ctx, models.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: p}, nil
}

// Profile returns a page of the posts written by username.
func (s *FeedService) Profile(ctx context.Context, username string, viewer *models.User, page string) (*ProfileFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("author %q: %w", username, err)
	}
	p, err := s.page(ctx, models.PostFilter{AuthorIDs: []int{author.ID}}, page)
	if err != nil {
		return nil, err
	}

	feed := &ProfileFeed{Author: author, Page: p, PostCount: p.Count}
	if viewer != nil {
		feed.Following, err = s.follows.Exists(ctx, viewer.ID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	return feed, nil
}

// Following returns a page of posts by every author the viewer follows.
func (s *FeedService) Following(ctx context.Context, viewer *models.User, page string) (PostPage, error) {
	if viewer == nil {
		return PostPage{}, ErrUnauthorized
	}
	authorIDs, err := s.follows.ListAuthorIDs(ctx, viewer.ID)
	if err != nil {
		return PostPage{}, err
	}
	if authorIDs == nil {
		authorIDs = []int{}
	}
	return s.page(ctx, models.PostFilter{AuthorIDs: authorIDs}, page)
}

func (s *FeedService) page(ctx context.Context, filter models.PostFilter, page string) (PostPage, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return PostPage{}, fmt.Errorf("failed to list posts: %w", err)
	}
	// Storage order is not trusted.
	models.SortNewestFirst(posts)
	return paginator.Paginate(posts, s.perPage, page), nil
}
