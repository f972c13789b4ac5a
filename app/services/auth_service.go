package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"yatube/app/models"
	"yatube/app/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var bcryptCost = bcrypt.DefaultCost

// SignupInput is the registration form.
type SignupInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// AuthService registers users and manages their login sessions.
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(repos repositories.Repositories, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:    repos.Users,
		sessions: repos.Sessions,
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// Signup creates a user. Field problems come back as a models.ValidationError.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	ve := models.ValidationError{}
	if msg := checkPassword(in.Password); msg != "" {
		ve.Add("password", msg)
	}

	user := &models.User{
		Username:  strings.TrimSpace(in.Username),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if len(ve) == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	} else {
		user.PasswordHash = "-"
	}
	if err := user.Validate(); err != nil {
		fieldErrs, ok := models.AsValidationError(err)
		if !ok {
			return nil, err
		}
		for field, msg := range fieldErrs {
			ve.Add(field, msg)
		}
	}
	if len(ve) > 0 {
		return nil, ve
	}

	err := s.users.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, models.ValidationError{"username": "A user with that username already exists."}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.StartSession(ctx, user)
}

// StartSession opens a session for user without checking a password.
func (s *AuthService) StartSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token. Unknown and expired tokens give ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

func checkPassword(pw string) string {
	if pw == "" {
		return "This field is required."
	}
	if len(pw) < minPasswordLength {
		return fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength)
	}
	numeric := true
	for _, r := range pw {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return "This password is entirely numeric."
	}
	return ""
}
