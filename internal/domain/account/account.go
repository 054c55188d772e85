package account

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role is the global capability level of an account. It is fixed at
// registration; there is no role-change workflow.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsAdmin reports whether the role grants administrative operations.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Account represents a registered user identity with profile data.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Phone        string
	Address      string
	Role         Role
	CreatedAt    time.Time
}

// Sentinel errors returned by Repository implementations.
var (
	ErrNotFound          = errors.New("account not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid username or password")
)

// Repository defines persistence operations for accounts.
type Repository interface {
	// Create persists a new account, filling ID and CreatedAt on success.
	// Returns ErrUsernameTaken or ErrEmailTaken on uniqueness violations.
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}
