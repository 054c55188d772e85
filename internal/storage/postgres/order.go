package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehall/dinehall/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order row and all of its lines inside one transaction.
// A failure anywhere rolls everything back.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (account_id, total, status, delivery_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, version, created_at`,
		o.AccountID, o.Total, string(o.Status), o.DeliveryAddress,
	).Scan(&o.ID, &o.Version, &o.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		line.OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, item_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			o.ID, line.ItemID, line.Quantity, line.UnitPrice,
		).Scan(&line.ID)
		if err != nil {
			return errors.Wrapf(err, "insert order line for item %d", line.ItemID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

// Get returns one order with its lines resolved for display.
func (r *OrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	var status string
	err := r.pool.QueryRow(ctx, `
		SELECT id, account_id, total, status, delivery_address, version, created_at
		FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.AccountID, &o.Total, &status, &o.DeliveryAddress, &o.Version, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	o.Status = order.Status(status)

	lines, err := r.linesFor(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return &o, nil
}

// ListByAccount returns an account's orders newest first, lines included.
func (r *OrderRepository) ListByAccount(ctx context.Context, accountID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, total, status, delivery_address, version, created_at
		FROM orders
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order with the owner's display name, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.account_id, o.total, o.status, o.delivery_address, o.version, o.created_at,
		       COALESCE(NULLIF(a.display_name, ''), a.username)
		FROM orders o
		JOIN accounts a ON a.id = o.account_id
		ORDER BY o.created_at DESC, o.id DESC`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list all orders")
	}
	defer rows.Close()

	var summaries []order.Summary
	for rows.Next() {
		var s order.Summary
		var status string
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Total, &status,
			&s.DeliveryAddress, &s.Version, &s.CreatedAt, &s.OwnerName); err != nil {
			return nil, errors.Wrap(err, "scan order summary")
		}
		s.Status = order.Status(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int64, len(summaries))
	for i := range summaries {
		ids[i] = summaries[i].ID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Lines = lines[summaries[i].ID]
	}
	return summaries, nil
}

// UpdateStatus conditionally moves the order to status. Zero rows affected
// means another writer bumped the version first.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status, version int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2, version = version + 1
		WHERE id = $1 AND version = $3`,
		id, string(status), version,
	)
	if err != nil {
		return errors.Wrapf(err, "update order %d status", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrStale
	}
	return nil
}

// linesFor fetches lines for the given order ids in one query, resolving
// item names through a LEFT JOIN so withdrawn items render as a placeholder
// instead of failing the read.
func (r *OrderRepository) linesFor(ctx context.Context, orderIDs []int64) (map[int64][]order.Line, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.order_id, l.item_id, m.name, l.quantity, l.unit_price
		FROM order_lines l
		LEFT JOIN menu_items m ON m.id = l.item_id
		WHERE l.order_id = ANY($1)
		ORDER BY l.id`,
		orderIDs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list order lines")
	}
	defer rows.Close()

	byOrder := make(map[int64][]order.Line)
	for rows.Next() {
		var l order.Line
		var itemID *int64
		var itemName *string
		if err := rows.Scan(&l.ID, &l.OrderID, &itemID, &itemName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, errors.Wrap(err, "scan order line")
		}
		if itemID != nil {
			l.ItemID = *itemID
		}
		if itemName != nil {
			l.ItemName = *itemName
		} else {
			l.ItemName = order.PlaceholderItemName
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	return byOrder, rows.Err()
}

func (r *OrderRepository) attachLines(ctx context.Context, orders []order.Order) error {
	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return nil
}

func scanOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var o order.Order
		var status string
		if err := rows.Scan(&o.ID, &o.AccountID, &o.Total, &status,
			&o.DeliveryAddress, &o.Version, &o.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		o.Status = order.Status(status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
