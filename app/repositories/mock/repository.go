package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
)

// New returns a full set of in-memory repositories.
func New() repositories.Repositories {
	return repositories.Repositories{
		Posts:    NewPostRepository(),
		Comments: NewCommentRepository(),
		Groups:   NewGroupRepository(),
		Users:    NewUserRepository(),
		Follows:  NewFollowRepository(),
		Sessions: NewSessionRepository(),
	}
}

type PostRepository struct {
	posts  map[int]models.Post
	nextID int
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]models.Post),
		nextID: 1,
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]models.Post)
	m.nextID = 1
}

func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.BeforeCreate()
	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = *post
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &post, nil
}

func (m *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if post.Matches(filter) {
			p := post
			posts = append(posts, &p)
		}
	}
	models.SortNewestFirst(posts)
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = *post
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

type CommentRepository struct {
	comments map[int]models.Comment
	nextID   int
	mutex    sync.RWMutex
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]models.Comment),
		nextID:   1,
	}
}

func (m *CommentRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.comments = make(map[int]models.Comment)
	m.nextID = 1
}

func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.BeforeCreate()
	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	stored.Post = nil
	m.comments[comment.ID] = stored
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &comment, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			c := comment
			comments = append(comments, &c)
		}
	}
	models.SortOldestFirst(comments)
	return comments, nil
}

func (m *CommentRepository) Delete(ctx context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) DeleteByPost(ctx context.Context, postID int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

type GroupRepository struct {
	groups map[int]models.Group
	nextID int
	mutex  sync.RWMutex
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		groups: make(map[int]models.Group),
		nextID: 1,
	}
}

func (m *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, g := range m.groups {
		if g.Slug == group.Slug {
			return fmt.Errorf("group slug %q: %w", group.Slug, repositories.ErrDuplicate)
		}
	}
	group.ID = m.nextID
	m.nextID++
	m.groups[group.ID] = *group
	return nil
}

func (m *GroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	group, exists := m.groups[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &group, nil
}

func (m *GroupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, g := range m.groups {
		if g.Slug == slug {
			group := g
			return &group, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *GroupRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make(map[int]*models.Group, len(ids))
	for _, id := range ids {
		if g, exists := m.groups[id]; exists {
			group := g
			out[id] = &group
		}
	}
	return out, nil
}

func (m *GroupRepository) List(ctx context.Context) ([]*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	groups := []*models.Group{}
	for _, g := range m.groups {
		group := g
		groups = append(groups, &group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

type UserRepository struct {
	users  map[int]models.User
	nextID int
	mutex  sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]models.User),
		nextID: 1,
	}
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	user.BeforeCreate()
	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, repositories.ErrDuplicate)
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make(map[int]*models.User, len(ids))
	for _, id := range ids {
		if u, exists := m.users[id]; exists {
			user := u
			out[id] = &user
		}
	}
	return out, nil
}

type followKey struct{ user, author int }

type FollowRepository struct {
	follows map[followKey]models.Follow
	nextID  int
	mutex   sync.RWMutex
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{
		follows: make(map[followKey]models.Follow),
		nextID:  1,
	}
}

func (m *FollowRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := followKey{follow.UserID, follow.AuthorID}
	if _, exists := m.follows[key]; exists {
		return false, nil
	}
	follow.BeforeCreate()
	follow.ID = m.nextID
	m.nextID++
	m.follows[key] = *follow
	return true, nil
}

func (m *FollowRepository) Delete(ctx context.Context, userID, authorID int) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := followKey{userID, authorID}
	if _, exists := m.follows[key]; !exists {
		return false, nil
	}
	delete(m.follows, key)
	return true, nil
}

func (m *FollowRepository) Exists(ctx context.Context, userID, authorID int) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, exists := m.follows[followKey{userID, authorID}]
	return exists, nil
}

func (m *FollowRepository) ListAuthorIDs(ctx context.Context, userID int) ([]int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := []int{}
	for key := range m.follows {
		if key.user == userID {
			ids = append(ids, key.author)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *FollowRepository) Count(ctx context.Context) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.follows), nil
}

type SessionRepository struct {
	sessions map[string]models.Session
	Now      func() time.Time
	mutex    sync.RWMutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]models.Session),
		Now:      time.Now,
	}
}

func (m *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.Expired(m.Now()) {
		return repositories.ErrSessionExpired
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.Token] = *session
	return nil
}

func (m *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[token]
	if !exists || session.Expired(m.Now()) {
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (m *SessionRepository) Delete(ctx context.Context, token string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, token)
	return nil
}
