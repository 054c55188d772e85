package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// MenuItem is a purchasable catalog entry. Price here is the live price;
// orders snapshot it at checkout and are never affected by later edits.
type MenuItem struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
}

// MenuCategory groups menu items under a unique name.
type MenuCategory struct {
	ID   int64
	Name string
}

// Sentinel errors returned by Repository implementations.
var (
	ErrItemNotFound     = errors.New("menu item not found")
	ErrCategoryNotFound = errors.New("menu category not found")
	ErrCategoryTaken    = errors.New("category name already exists")
	ErrCategoryInUse    = errors.New("category still has menu items")
)

// Repository defines persistence operations for the menu catalog.
type Repository interface {
	ListItems(ctx context.Context, categoryID int64) ([]MenuItem, error)
	GetItem(ctx context.Context, id int64) (*MenuItem, error)
	// GetAvailableItems batch-fetches the currently available items among ids.
	// Missing and unavailable ids are simply absent from the result.
	GetAvailableItems(ctx context.Context, ids []int64) ([]MenuItem, error)
	CreateItem(ctx context.Context, item *MenuItem) error
	UpdateItem(ctx context.Context, item *MenuItem) error
	DeleteItem(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]MenuCategory, error)
	CreateCategory(ctx context.Context, c *MenuCategory) error
	DeleteCategory(ctx context.Context, id int64) error
}
