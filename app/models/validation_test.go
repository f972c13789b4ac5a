package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidation(t *testing.T) {
	valid := User{Username: "leo.t", PasswordHash: "x"}
	assert.NoError(t, valid.Validate())

	bad := User{Username: "no spaces", PasswordHash: "x"}
	err := bad.Validate()
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve["username"], "valid username")
}

func TestGroupValidation(t *testing.T) {
	assert.NoError(t, (&Group{Title: "Cats", Slug: "cats"}).Validate())

	err := (&Group{Title: " ", Slug: "Bad Slug"}).Validate()
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", ve["title"])
	assert.Contains(t, ve["slug"], "valid slug")
}

func TestFollowValidation(t *testing.T) {
	assert.NoError(t, (&Follow{UserID: 1, AuthorID: 2}).Validate())

	err := (&Follow{UserID: 2, AuthorID: 2}).Validate()
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "You cannot follow yourself.", ve["author_id"])
}

func TestValidationErrorWrapping(t *testing.T) {
	ve := ValidationError{}
	ve.Add("text", "first")
	ve.Add("text", "second")
	ve.Add("group", "bad group")

	assert.Equal(t, "validation failed: group: bad group; text: first", ve.Error())

	wrapped := fmt.Errorf("invalid post: %w", ve)
	got, ok := AsValidationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "first", got["text"])

	_, ok = AsValidationError(errors.New("plain"))
	assert.False(t, ok)
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Leo Tolstoy", (&User{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}).FullName())
	assert.Equal(t, "leo", (&User{Username: "leo"}).FullName())
}
