package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinehall/dinehall/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListItems returns available menu items, optionally filtered by category
// (categoryID <= 0 means all), ordered by id.
func (r *CatalogRepository) ListItems(ctx context.Context, categoryID int64) ([]catalog.MenuItem, error) {
	query := `
		SELECT id, category_id, name, description, price, available
		FROM menu_items
		WHERE available`
	args := []any{}
	if categoryID > 0 {
		query += ` AND category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list menu items")
	}
	return scanItems(rows)
}

// GetItem returns a single menu item by id, available or not.
func (r *CatalogRepository) GetItem(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	var m catalog.MenuItem
	err := r.pool.QueryRow(ctx, `
		SELECT id, category_id, name, description, price, available
		FROM menu_items WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, errors.Wrapf(err, "get menu item %d", id)
	}
	return &m, nil
}

// GetAvailableItems batch-fetches the available items among ids in a single
// query. Unknown and unavailable ids are absent from the result.
func (r *CatalogRepository) GetAvailableItems(ctx context.Context, ids []int64) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, name, description, price, available
		FROM menu_items
		WHERE id = ANY($1) AND available`,
		ids,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}
	return scanItems(rows)
}

// CreateItem inserts a menu item, filling its ID on success.
func (r *CatalogRepository) CreateItem(ctx context.Context, item *catalog.MenuItem) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO menu_items (category_id, name, description, price, available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		item.CategoryID, item.Name, item.Description, item.Price, item.Available,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return catalog.ErrCategoryNotFound
		}
		return errors.Wrapf(err, "create menu item %q", item.Name)
	}
	return nil
}

// UpdateItem replaces all fields of a menu item.
func (r *CatalogRepository) UpdateItem(ctx context.Context, item *catalog.MenuItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $2, name = $3, description = $4, price = $5, available = $6
		WHERE id = $1`,
		item.ID, item.CategoryID, item.Name, item.Description, item.Price, item.Available,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return catalog.ErrCategoryNotFound
		}
		return errors.Wrapf(err, "update menu item %d", item.ID)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// DeleteItem removes a menu item. order_lines.item_id is SET NULL by the
// schema, so history survives.
func (r *CatalogRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete menu item %d", id)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]catalog.MenuCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM menu_categories ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	var cats []catalog.MenuCategory
	for rows.Next() {
		var c catalog.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a category, filling its ID on success.
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *catalog.MenuCategory) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO menu_categories (name) VALUES ($1) RETURNING id`,
		c.Name,
	).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrCategoryTaken
		}
		return errors.Wrapf(err, "create category %q", c.Name)
	}
	return nil
}

// DeleteCategory removes an empty category.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return catalog.ErrCategoryInUse
		}
		return errors.Wrapf(err, "delete category %d", id)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrCategoryNotFound
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]catalog.MenuItem, error) {
	defer rows.Close()

	var items []catalog.MenuItem
	for rows.Next() {
		var m catalog.MenuItem
		if err := rows.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.Available); err != nil {
			return nil, errors.Wrap(err, "scan menu item")
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
