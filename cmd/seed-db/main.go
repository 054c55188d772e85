// Command seed-db applies migrations and seeds the menu catalog and the
// initial admin account. It is idempotent: existing rows are left alone.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/dinehall/dinehall/internal/storage/postgres"
)

type seedCategory struct {
	name  string
	items []seedItem
}

type seedItem struct {
	name        string
	description string
	price       string
}

var menu = []seedCategory{
	{
		name: "Starters",
		items: []seedItem{
			{"Bruschetta", "Grilled bread, tomato, basil", "6.50"},
			{"Soup of the Day", "Ask your server", "5.00"},
		},
	},
	{
		name: "Mains",
		items: []seedItem{
			{"Margherita Pizza", "Tomato, mozzarella, basil", "11.00"},
			{"Spaghetti Carbonara", "Guanciale, pecorino, egg", "13.50"},
			{"Grilled Salmon", "With seasonal vegetables", "18.00"},
		},
	},
	{
		name: "Drinks",
		items: []seedItem{
			{"Espresso", "", "2.50"},
			{"Fresh Lemonade", "", "4.00"},
		},
	},
}

func main() {
	var (
		databaseURL   string
		adminUsername string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminUsername, "admin-username", "admin", "username for the seeded admin account")
	flag.StringVar(&adminEmail, "admin-email", "admin@dinehall.local", "email for the seeded admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the seeded admin account (or DINEHALL_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("DINEHALL_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or DINEHALL_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminUsername, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminUsername, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Menu and admin account are independent; seed them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(seedMenu(gctx, pool), "seed menu")
	})
	g.Go(func() error {
		return errors.Wrap(seedAdmin(gctx, pool, adminUsername, adminEmail, adminPassword), "seed admin account")
	})
	return g.Wait()
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool) error {
	for _, cat := range menu {
		var categoryID int64
		err := pool.QueryRow(ctx, `
			INSERT INTO menu_categories (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			cat.name,
		).Scan(&categoryID)
		if err != nil {
			return errors.Wrapf(err, "upsert category %q", cat.name)
		}

		for _, item := range cat.items {
			price, err := decimal.NewFromString(item.price)
			if err != nil {
				return errors.Wrapf(err, "parse price for %q", item.name)
			}

			_, err = pool.Exec(ctx, `
				INSERT INTO menu_items (category_id, name, description, price, available)
				SELECT $1, $2, $3, $4, TRUE
				WHERE NOT EXISTS (
					SELECT 1 FROM menu_items WHERE category_id = $1 AND name = $2
				)`,
				categoryID, item.name, item.description, price,
			)
			if err != nil {
				return errors.Wrapf(err, "insert item %q", item.name)
			}
		}

		slog.Info("seeded category", slog.String("name", cat.name), slog.Int("items", len(cat.items)))
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO accounts (username, email, password_hash, display_name, role)
		VALUES ($1, $2, $3, 'Administrator', 'admin')
		ON CONFLICT (username) DO NOTHING`,
		username, email, string(hash),
	)
	if err != nil {
		return errors.Wrap(err, "insert admin account")
	}

	slog.Info("seeded admin account", slog.String("username", username))
	return nil
}
