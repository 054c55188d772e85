package account

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/dinehall/dinehall/internal/domain/errs"
)

// Service encapsulates account registration and credential verification.
type Service struct {
	accounts Repository
}

// NewService creates an account Service backed by the given repository.
func NewService(accounts Repository) *Service {
	return &Service{accounts: accounts}
}

// RegisterRequest holds the input for creating a new account.
type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Phone       string
	Address     string
}

// Register creates a customer account with a bcrypt-hashed credential.
// Uniqueness violations surface as ErrUsernameTaken / ErrEmailTaken.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	switch {
	case req.Username == "":
		return nil, &errs.ValidationError{Reason: "username is required"}
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		return nil, &errs.ValidationError{Reason: "a valid email is required"}
	case len(req.Password) < 8:
		return nil, &errs.ValidationError{Reason: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	a := &Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         RoleCustomer,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate verifies a username/password pair and returns the matching
// account. A missing account and a wrong password both return
// ErrInvalidCredential so callers cannot probe for usernames.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	a, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, errors.Wrap(err, "get account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return a, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &errs.NotFoundError{Entity: "account", ID: id}
		}
		return nil, errors.Wrap(err, "get account")
	}
	return a, nil
}
