package services

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/repositories/mock"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type fakeImages struct {
	// names are handed out in order; once exhausted every upload is posts/img.gif.
	names   []string
	saved   []string
	removed []string
}

func (f *fakeImages) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !bytes.HasPrefix(data, []byte("GIF8")) {
		return "", models.ValidationError{"image": "Upload a valid image."}
	}
	name := "posts/img.gif"
	if len(f.names) > 0 {
		name, f.names = f.names[0], f.names[1:]
	}
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeImages) Remove(name string) error {
	f.removed = append(f.removed, name)
	return nil
}

// failingPosts fails every write while reads go to the wrapped repository.
type failingPosts struct {
	repositories.PostRepository
	err error
}

func (f failingPosts) Create(context.Context, *models.Post) error { return f.err }

func (f failingPosts) Update(context.Context, *models.Post) error { return f.err }

func newUser(t *testing.T, repos repositories.Repositories, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func newPost(t *testing.T, repos repositories.Repositories, author *models.User, text string, at time.Time, group *models.Group) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author.ID, Text: text, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, repos.Posts.Create(context.Background(), p))
	return p
}

func newRepos() repositories.Repositories {
	return mock.New()
}
