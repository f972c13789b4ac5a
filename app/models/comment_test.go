package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name: "valid comment",
			comment: &Comment{
				PostID:    1,
				AuthorID:  2,
				Text:      "This is a valid comment",
				CreatedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "blank text",
			comment: &Comment{
				PostID:    1,
				AuthorID:  2,
				Text:      "   ",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing post",
			comment: &Comment{
				AuthorID:  2,
				Text:      "Orphan",
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero creation time",
			comment: &Comment{
				PostID:   1,
				AuthorID: 2,
				Text:     "Valid content",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentSetPost(t *testing.T) {
	comment := &Comment{ID: 1, Text: "Test Comment"}

	t.Run("set valid post", func(t *testing.T) {
		post := &Post{ID: 4, Text: "Test Post"}

		err := comment.SetPost(post)
		assert.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, post, comment.Post)
	})

	t.Run("set nil post", func(t *testing.T) {
		err := comment.SetPost(nil)
		assert.Error(t, err)
	})
}

func TestSortOldestFirst(t *testing.T) {
	base := time.Now()
	comments := []*Comment{
		{ID: 3, CreatedAt: base.Add(time.Second)},
		{ID: 2, CreatedAt: base},
		{ID: 1, CreatedAt: base},
	}
	SortOldestFirst(comments)
	assert.Equal(t, 1, comments[0].ID)
	assert.Equal(t, 2, comments[1].ID)
	assert.Equal(t, 3, comments[2].ID)
}
