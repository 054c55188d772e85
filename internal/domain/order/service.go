package order

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dinehall/dinehall/internal/domain/account"
	"github.com/dinehall/dinehall/internal/domain/auth"
	"github.com/dinehall/dinehall/internal/domain/catalog"
	"github.com/dinehall/dinehall/internal/domain/errs"
)

// CatalogStore is the read-only slice of the catalog the checkout needs.
type CatalogStore interface {
	GetAvailableItems(ctx context.Context, ids []int64) ([]catalog.MenuItem, error)
}

// AccountStore resolves owning accounts during checkout.
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*account.Account, error)
}

// CartItem is a single requested (menu item, quantity) pair.
type CartItem struct {
	ItemID   int64
	Quantity int
}

// CheckoutRequest holds the input for placing an order.
type CheckoutRequest struct {
	DeliveryAddress string
	Items           []CartItem
}

// Service implements the checkout workflow, the status transition engine,
// and the ownership-filtered query surface.
type Service struct {
	orders   Repository
	menu     CatalogStore
	accounts AccountStore
}

// NewService creates an order Service with the required domain dependencies.
func NewService(orders Repository, menu CatalogStore, accounts AccountStore) *Service {
	return &Service{
		orders:   orders,
		menu:     menu,
		accounts: accounts,
	}
}

// Checkout validates the cart, prices it against the catalog, and persists
// an Order in the pending state together with its lines. Failure at any
// point leaves nothing persisted.
func (s *Service) Checkout(ctx context.Context, ident auth.Identity, req CheckoutRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, &errs.ValidationError{Reason: "cart is empty"}
	}
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return nil, &errs.ValidationError{Reason: "delivery address is required"}
	}

	ids := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &errs.ValidationError{Reason: "quantity must be greater than 0"}
		}
		ids[i] = item.ItemID
	}

	if _, err := s.accounts.GetByID(ctx, ident.AccountID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, &errs.NotFoundError{Entity: "account", ID: ident.AccountID}
		}
		return nil, errors.Wrap(err, "get account")
	}

	// Batch fetch; anything missing from the result is either unknown or
	// currently unavailable, which checkout treats the same way.
	fetched, err := s.menu.GetAvailableItems(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}
	byID := make(map[int64]catalog.MenuItem, len(fetched))
	for _, m := range fetched {
		byID[m.ID] = m
	}

	lines := make([]Line, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		m, ok := byID[item.ItemID]
		if !ok {
			return nil, &errs.NotFoundError{Entity: "menu item", ID: item.ItemID}
		}

		// Snapshot the price: later catalog edits never touch this line.
		lines[i] = Line{
			ItemID:    m.ID,
			ItemName:  m.Name,
			Quantity:  item.Quantity,
			UnitPrice: m.Price,
		}
		total = total.Add(m.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	o := &Order{
		AccountID:       ident.AccountID,
		Total:           total.Round(2),
		Status:          StatusPending,
		DeliveryAddress: req.DeliveryAddress,
		Lines:           lines,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Advance moves an order one step forward along the legal state graph.
// Admin only; the target must be the exact next forward state. The write is
// conditional on the version read here, so a concurrent transition surfaces
// as a conflict carrying the now-current status instead of a lost update.
func (s *Service) Advance(ctx context.Context, ident auth.Identity, orderID int64, target Status) (*Order, error) {
	if !ident.Role.IsAdmin() {
		return nil, &errs.AuthorizationError{Reason: "only admins may change order status"}
	}
	if !target.Valid() {
		return nil, &errs.ValidationError{Reason: "unknown order status '" + string(target) + "'"}
	}

	o, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Cancellation has its own operation with its own actor rules.
	if target == StatusCancelled || !o.Status.CanTransitionTo(target) {
		return nil, &errs.ConflictError{Current: string(o.Status), Requested: string(target)}
	}

	return s.commitTransition(ctx, o, target)
}

// Cancel moves a pending order to cancelled. Allowed for the owning account
// and for admins; any status other than pending is a conflict. All other
// fields, including lines and totals, are preserved for history.
func (s *Service) Cancel(ctx context.Context, ident auth.Identity, orderID int64) (*Order, error) {
	o, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.AccountID != ident.AccountID && !ident.Role.IsAdmin() {
		return nil, &errs.AuthorizationError{Reason: "not your order"}
	}
	if !o.Status.Cancellable() {
		return nil, &errs.ConflictError{Current: string(o.Status), Requested: string(StatusCancelled)}
	}

	return s.commitTransition(ctx, o, StatusCancelled)
}

// commitTransition performs the conditional status write. On a stale
// version it re-reads and reports the fresh status in the conflict so the
// caller can show what actually happened instead of retrying blindly.
func (s *Service) commitTransition(ctx context.Context, o *Order, target Status) (*Order, error) {
	err := s.orders.UpdateStatus(ctx, o.ID, target, o.Version)
	if err != nil {
		if errors.Is(err, ErrStale) {
			fresh, ferr := s.get(ctx, o.ID)
			if ferr != nil {
				return nil, ferr
			}
			return nil, &errs.ConflictError{Current: string(fresh.Status), Requested: string(target)}
		}
		return nil, errors.Wrap(err, "update order status")
	}

	o.Status = target
	o.Version++
	return o, nil
}

// Get returns one order with lines resolved. Callers that neither own the
// order nor hold the admin role are denied without leaking its fields.
func (s *Service) Get(ctx context.Context, ident auth.Identity, orderID int64) (*Order, error) {
	o, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.AccountID != ident.AccountID && !ident.Role.IsAdmin() {
		return nil, &errs.AuthorizationError{Reason: "not your order"}
	}
	return o, nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, ident auth.Identity) ([]Order, error) {
	list, err := s.orders.ListByAccount(ctx, ident.AccountID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return list, nil
}

// ListAll returns every order with owner display names. Admin only.
func (s *Service) ListAll(ctx context.Context, ident auth.Identity) ([]Summary, error) {
	if !ident.Role.IsAdmin() {
		return nil, &errs.AuthorizationError{Reason: "only admins may list all orders"}
	}

	list, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list all orders")
	}
	return list, nil
}

func (s *Service) get(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &errs.NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, errors.Wrap(err, "get order")
	}
	return o, nil
}
