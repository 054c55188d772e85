package postgres

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehall/dinehall/internal/domain/account"
)

var _ account.Repository = (*AccountRepository)(nil)

// AccountRepository implements account.Repository backed by PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns an AccountRepository that uses the given pool.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account. Uniqueness violations map to the domain
// sentinels by constraint name.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (username, email, password_hash, display_name, phone, address, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		a.Username, a.Email, a.PasswordHash, a.DisplayName, a.Phone, a.Address, string(a.Role),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return account.ErrEmailTaken
			}
			return account.ErrUsernameTaken
		}
		return errors.Wrapf(err, "create account %q", a.Username)
	}
	return nil
}

// GetByID returns the account with the given id.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByUsername returns the account with the given username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *AccountRepository) get(ctx context.Context, where string, arg any) (*account.Account, error) {
	var a account.Account
	var role string
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, display_name, phone, address, role, created_at
		FROM accounts `+where,
		arg,
	).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.DisplayName, &a.Phone, &a.Address, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrNotFound
		}
		return nil, errors.Wrap(err, "get account")
	}
	a.Role = account.Role(role)
	return &a, nil
}
