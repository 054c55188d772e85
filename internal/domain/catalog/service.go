package catalog

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/dinehall/dinehall/internal/domain/auth"
	"github.com/dinehall/dinehall/internal/domain/errs"
)

// Service exposes the public read surface of the catalog and the admin-only
// mutation surface. The caller role is passed explicitly on every mutation.
type Service struct {
	repo Repository
}

// NewService creates a catalog Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListMenu returns menu items, optionally restricted to one category
// (categoryID == 0 means all).
func (s *Service) ListMenu(ctx context.Context, categoryID int64) ([]MenuItem, error) {
	items, err := s.repo.ListItems(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return items, nil
}

// ListCategories returns all menu categories.
func (s *Service) ListCategories(ctx context.Context) ([]MenuCategory, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return cats, nil
}

// GetItem returns a single menu item regardless of availability.
func (s *Service) GetItem(ctx context.Context, id int64) (*MenuItem, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, &errs.NotFoundError{Entity: "menu item", ID: id}
		}
		return nil, errors.Wrap(err, "get menu item")
	}
	return item, nil
}

// CreateItem adds a menu item. Admin only.
func (s *Service) CreateItem(ctx context.Context, ident auth.Identity, item *MenuItem) error {
	if !ident.Role.IsAdmin() {
		return &errs.AuthorizationError{Reason: "only admins may edit the menu"}
	}
	if err := validateItem(item); err != nil {
		return err
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return &errs.NotFoundError{Entity: "menu category", ID: item.CategoryID}
		}
		return errors.Wrap(err, "create menu item")
	}
	return nil
}

// UpdateItem replaces a menu item's fields. Admin only. Existing order lines
// keep their snapshotted prices regardless of this change.
func (s *Service) UpdateItem(ctx context.Context, ident auth.Identity, item *MenuItem) error {
	if !ident.Role.IsAdmin() {
		return &errs.AuthorizationError{Reason: "only admins may edit the menu"}
	}
	if err := validateItem(item); err != nil {
		return err
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			return &errs.NotFoundError{Entity: "menu item", ID: item.ID}
		case errors.Is(err, ErrCategoryNotFound):
			return &errs.NotFoundError{Entity: "menu category", ID: item.CategoryID}
		}
		return errors.Wrap(err, "update menu item")
	}
	return nil
}

// DeleteItem removes a menu item from the catalog. Admin only. Historical
// order lines referencing the item stay intact and render a placeholder.
func (s *Service) DeleteItem(ctx context.Context, ident auth.Identity, id int64) error {
	if !ident.Role.IsAdmin() {
		return &errs.AuthorizationError{Reason: "only admins may edit the menu"}
	}

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return &errs.NotFoundError{Entity: "menu item", ID: id}
		}
		return errors.Wrap(err, "delete menu item")
	}
	return nil
}

// CreateCategory adds a category. Admin only.
func (s *Service) CreateCategory(ctx context.Context, ident auth.Identity, c *MenuCategory) error {
	if !ident.Role.IsAdmin() {
		return &errs.AuthorizationError{Reason: "only admins may edit the menu"}
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return &errs.ValidationError{Reason: "category name is required"}
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, ErrCategoryTaken) {
			return err
		}
		return errors.Wrap(err, "create category")
	}
	return nil
}

// DeleteCategory removes an empty category. Admin only.
func (s *Service) DeleteCategory(ctx context.Context, ident auth.Identity, id int64) error {
	if !ident.Role.IsAdmin() {
		return &errs.AuthorizationError{Reason: "only admins may edit the menu"}
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			return &errs.NotFoundError{Entity: "menu category", ID: id}
		case errors.Is(err, ErrCategoryInUse):
			return &errs.ValidationError{Reason: "category still has menu items"}
		}
		return errors.Wrap(err, "delete category")
	}
	return nil
}

func validateItem(item *MenuItem) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return &errs.ValidationError{Reason: "item name is required"}
	case item.Price.IsNegative():
		return &errs.ValidationError{Reason: "item price must not be negative"}
	case item.CategoryID <= 0:
		return &errs.ValidationError{Reason: "item category is required"}
	}
	return nil
}
