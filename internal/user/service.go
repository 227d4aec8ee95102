package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nafaymotors/inventory/internal/apierror"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail returns nil (no error) when no account matches.
	FindByEmail(ctx context.Context, email string) (*User, error)

	ListUsers(ctx context.Context) ([]*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if username == "" || email == "" || params.Password == "" {
		return nil, apierror.BadRequest("Username, email and password are required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, apierror.Conflict("User already exists with this email")
	}

	hash, salt, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		PhoneNumber:  strings.TrimSpace(params.PhoneNumber),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login verifies credentials and returns the account. Both unknown email and
// a wrong password produce the same error so the response does not reveal
// which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if u == nil {
		return nil, apierror.BadRequest("Invalid credentials")
	}

	ok, err := verifyPassword(password, u.PasswordSalt, u.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, apierror.BadRequest("Invalid credentials")
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}
