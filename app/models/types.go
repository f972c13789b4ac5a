package models

import "time"

// User is a registered account. Every post author is a user.
type User struct {
	ID           int       `json:"id" gorm:"primaryKey" validate:"gte=0"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null" validate:"required,min=3,max=150,username"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(150)" validate:"max=150"`
	LastName     string    `json:"last_name" gorm:"type:varchar(150)" validate:"max=150"`
	PasswordHash string    `json:"password_hash" gorm:"type:varchar(100);not null" validate:"required"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
}

// Group is a topical community posts can be assigned to.
type Group struct {
	ID          int    `json:"id" gorm:"primaryKey" validate:"gte=0"`
	Title       string `json:"title" gorm:"type:varchar(200);not null" validate:"notblank,max=200"`
	Slug        string `json:"slug" gorm:"type:varchar(50);uniqueIndex;not null" validate:"required,max=50,slug"`
	Description string `json:"description" gorm:"type:text" validate:"max=2000"`
}

// Post is a blog entry. Feeds order posts newest first.
type Post struct {
	ID        int        `json:"id" gorm:"primaryKey" validate:"gte=0"`
	AuthorID  int        `json:"author_id" gorm:"not null;index" validate:"gt=0"`
	Text      string     `json:"text" gorm:"type:text;not null" validate:"notblank,max=10000"`
	GroupID   *int       `json:"group_id,omitempty" gorm:"index" validate:"omitempty,gt=0"`
	Image     string     `json:"image,omitempty" gorm:"type:varchar(255)" validate:"max=255"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;index" validate:"required"`
	Comments  []*Comment `json:"-" gorm:"-" validate:"-"`
}

// Comment is a reply left on a post.
type Comment struct {
	ID        int       `json:"id" gorm:"primaryKey" validate:"gte=0"`
	PostID    int       `json:"post_id" gorm:"not null;index" validate:"gt=0"`
	AuthorID  int       `json:"author_id" gorm:"not null;index" validate:"gt=0"`
	Text      string    `json:"text" gorm:"type:text;not null" validate:"notblank,max=2000"`
	CreatedAt time.Time `json:"created_at" gorm:"not null" validate:"required"`
	Post      *Post     `json:"-" gorm:"-" validate:"-"`
}

// Follow is a subscription edge from UserID to AuthorID.
type Follow struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"user_id" gorm:"not null;uniqueIndex:idx_follow_pair;index" validate:"gt=0"`
	AuthorID  int       `json:"author_id" gorm:"not null;uniqueIndex:idx_follow_pair" validate:"gt=0,nefield=UserID"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// Session binds a login token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"token" gorm:"type:varchar(36);primaryKey"`
	UserID    int       `json:"user_id" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
}

// PostFilter narrows a post listing. Zero values mean "no restriction";
// a non-nil empty AuthorIDs matches nothing.
type PostFilter struct {
	GroupID   int
	AuthorIDs []int
}
