package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PlaceholderItemName is rendered for lines whose menu item was later
// removed from the catalog. Historical orders stay viewable either way.
const PlaceholderItemName = "Unknown Item"

// Order is the central entity of the checkout workflow. After creation only
// Status (and the guarding Version) ever changes; every other field,
// including the delivery address and line prices, is frozen for audit.
type Order struct {
	ID              int64
	AccountID       int64
	Total           decimal.Decimal
	Status          Status
	DeliveryAddress string
	Version         int64
	CreatedAt       time.Time
	Lines           []Line
}

// Line is a single order entry with its price snapshotted at checkout time.
// ItemID is zero and ItemName is PlaceholderItemName when the referenced
// menu item no longer exists.
type Line struct {
	ID        int64
	OrderID   int64
	ItemID    int64
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Summary is a flattened listing row for the admin order overview.
type Summary struct {
	Order
	OwnerName string
}

// Sentinel errors returned by Repository implementations.
var (
	// ErrNotFound indicates the order id does not resolve to a row.
	ErrNotFound = errors.New("order not found")
	// ErrStale indicates a conditional status write matched zero rows
	// because another request committed first.
	ErrStale = errors.New("order was modified concurrently")
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and all of its lines as a single atomic
	// unit, filling ID, CreatedAt, Version, and line IDs on success.
	Create(ctx context.Context, o *Order) error
	// Get returns the order with its lines resolved for display.
	Get(ctx context.Context, id int64) (*Order, error)
	// ListByAccount returns the account's orders, newest first.
	ListByAccount(ctx context.Context, accountID int64) ([]Order, error)
	// ListAll returns every order with its owner's display name, newest first.
	ListAll(ctx context.Context) ([]Summary, error)
	// UpdateStatus conditionally moves the order to status, succeeding only
	// if the persisted version still equals version. Returns ErrStale when
	// the row moved on concurrently.
	UpdateStatus(ctx context.Context, id int64, status Status, version int64) error
}
