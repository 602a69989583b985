package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/example/sneaker-shop/internal/auth"
	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/checkout"
	"github.com/example/sneaker-shop/internal/order"
)

// ConnectPostgres establishes a connection to PostgreSQL.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// EnsureSchema creates the tables the shop needs if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			brand TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			price NUMERIC NOT NULL,
			discount NUMERIC NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			sizes JSONB NOT NULL DEFAULT '[]',
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotations (
			id TEXT PRIMARY KEY,
			items JSONB NOT NULL,
			subtotal NUMERIC NOT NULL,
			shipping NUMERIC NOT NULL,
			total NUMERIC NOT NULL,
			status TEXT NOT NULL,
			method TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS staff (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// PostgresCatalog implements catalog.Store on PostgreSQL.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

const productColumns = "id, brand, model, name, price, discount, category, sizes, image_url, created_at, updated_at"

func (c *PostgresCatalog) Get(ctx context.Context, id string) (catalog.Product, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return p, err
}

func (c *PostgresCatalog) List(ctx context.Context) ([]catalog.Product, error) {
	return c.query(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at DESC")
}

func (c *PostgresCatalog) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return c.query(ctx,
		"SELECT "+productColumns+" FROM products WHERE LOWER(category) = LOWER($1) ORDER BY created_at DESC",
		category)
}

func (c *PostgresCatalog) Put(ctx context.Context, p catalog.Product) error {
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			brand = EXCLUDED.brand,
			model = EXCLUDED.model,
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			discount = EXCLUDED.discount,
			category = EXCLUDED.category,
			sizes = EXCLUDED.sizes,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.Brand, p.Model, p.Name, p.Price, p.Discount, p.Category, sizes, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (c *PostgresCatalog) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

func (c *PostgresCatalog) query(ctx context.Context, q string, args ...any) ([]catalog.Product, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var p catalog.Product
	var sizes []byte
	err := row.Scan(&p.ID, &p.Brand, &p.Model, &p.Name, &p.Price, &p.Discount,
		&p.Category, &sizes, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return catalog.Product{}, err
	}
	if len(sizes) > 0 {
		if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
			return catalog.Product{}, fmt.Errorf("failed to decode sizes for %s: %w", p.ID, err)
		}
	}
	return p, nil
}

// PostgresOrders implements order.Repository on PostgreSQL. Items are stored
// as a JSONB snapshot, matching their write-once nature.
type PostgresOrders struct {
	db *sql.DB
}

func NewPostgresOrders(db *sql.DB) *PostgresOrders {
	return &PostgresOrders{db: db}
}

func (o *PostgresOrders) Save(ctx context.Context, snap checkout.Snapshot) error {
	items, err := json.Marshal(snap.Items)
	if err != nil {
		return err
	}

	_, err = o.db.ExecContext(ctx, `
		INSERT INTO quotations (id, items, subtotal, shipping, total, status, method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, snap.ID, items, snap.Subtotal, snap.Shipping, snap.Total, snap.Status, string(snap.Method), snap.CreatedAt)
	return err
}

func (o *PostgresOrders) Get(ctx context.Context, id string) (checkout.Snapshot, error) {
	row := o.db.QueryRowContext(ctx, `
		SELECT id, items, subtotal, shipping, total, status, method, created_at
		FROM quotations WHERE id = $1
	`, id)
	snap, err := scanQuotation(row)
	if err == sql.ErrNoRows {
		return checkout.Snapshot{}, order.ErrNotFound
	}
	return snap, err
}

func (o *PostgresOrders) List(ctx context.Context) ([]checkout.Snapshot, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT id, items, subtotal, shipping, total, status, method, created_at
		FROM quotations ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []checkout.Snapshot
	for rows.Next() {
		snap, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, snap)
	}
	return orders, rows.Err()
}

func (o *PostgresOrders) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := o.db.ExecContext(ctx,
		"UPDATE quotations SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanQuotation(row rowScanner) (checkout.Snapshot, error) {
	var snap checkout.Snapshot
	var items []byte
	var method string
	err := row.Scan(&snap.ID, &items, &snap.Subtotal, &snap.Shipping, &snap.Total,
		&snap.Status, &method, &snap.CreatedAt)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	snap.Method = checkout.Method(method)
	if err := json.Unmarshal(items, &snap.Items); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("failed to decode items for %s: %w", snap.ID, err)
	}
	return snap, nil
}

// PostgresStaff implements auth.StaffDirectory on PostgreSQL.
type PostgresStaff struct {
	db *sql.DB
}

func NewPostgresStaff(db *sql.DB) *PostgresStaff {
	return &PostgresStaff{db: db}
}

func (s *PostgresStaff) GetByEmail(ctx context.Context, email string) (auth.Staff, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM staff WHERE LOWER(email) = LOWER($1)
	`, email)

	var staff auth.Staff
	err := row.Scan(&staff.ID, &staff.Email, &staff.Name, &staff.PasswordHash, &staff.Role, &staff.CreatedAt)
	if err == sql.ErrNoRows {
		return auth.Staff{}, auth.ErrStaffNotFound
	}
	if err != nil {
		return auth.Staff{}, err
	}
	return staff, nil
}

// Put inserts or updates a staff account; used by the staffctl tool.
func (s *PostgresStaff) Put(ctx context.Context, staff auth.Staff) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role
	`, staff.ID, staff.Email, staff.Name, staff.PasswordHash, staff.Role, staff.CreatedAt)
	return err
}
