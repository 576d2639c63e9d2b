package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

// OpenSQLite opens (and creates if needed) the ledger database and its schema
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS generic_products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT
);
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	generic_product_id TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS stores (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS prices (
	id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	store_id TEXT NOT NULL,
	price TEXT NOT NULL,
	observed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prices_product_observed ON prices (product_id, observed_at);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

type sqliteProductRepository struct {
	db *sql.DB
}

// NewSQLiteProductRepository product repository backed by db
func NewSQLiteProductRepository(db *sql.DB) repository.ProductRepository {
	return &sqliteProductRepository{db: db}
}

func (s *sqliteProductRepository) SaveProduct(ctx context.Context, product entity.Product) error {
	if product.ID == "" {
		return repository.Upstream("save product", errEmptyID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Upstream("save product", err)
	}

	genericID := product.GenericProductID
	if product.GenericProduct != nil {
		if product.GenericProduct.ID != "" {
			genericID = product.GenericProduct.ID
		}
		if genericID == "" {
			tx.Rollback()
			return repository.Upstream("save product", errEmptyID)
		}
		_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO generic_products (id, name, category) VALUES (?, ?, ?)`,
			genericID, product.GenericProduct.Name, nullString(product.GenericProduct.Category))
		if err != nil {
			tx.Rollback()
			return repository.Upstream("save generic product", err)
		}
	}

	createdAt := product.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO products (id, name, description, image_url, generic_product_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.ImageURL, nullString(genericID), createdAt.UTC())
	if err != nil {
		tx.Rollback()
		return repository.Upstream("save product", err)
	}

	return repository.Upstream("save product", tx.Commit())
}

func (s *sqliteProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT p.id, p.name, p.description, p.image_url, p.generic_product_id, p.created_at,
       g.id, g.name, g.category
FROM products p
LEFT JOIN generic_products g ON g.id = p.generic_product_id
WHERE p.id = ?`, id)

	var (
		product                        entity.Product
		genericRef                     sql.NullString
		genericID, genericName, genCat sql.NullString
	)
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.ImageURL, &genericRef, &product.CreatedAt,
		&genericID, &genericName, &genCat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, repository.Upstream("get product", err)
	}

	product.GenericProductID = genericRef.String
	if genericID.Valid {
		product.GenericProduct = &entity.GenericProduct{
			ID:       genericID.String,
			Name:     genericName.String,
			Category: genCat.String,
		}
	}
	return &product, nil
}

func (s *sqliteProductRepository) UpdateGenericProductCategory(ctx context.Context, genericProductID, category string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE generic_products SET category = ? WHERE id = ?`,
		nullString(category), genericProductID)
	if err != nil {
		return repository.Upstream("update category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return repository.Upstream("update category", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type sqliteStoreRepository struct {
	db *sql.DB
}

// NewSQLiteStoreRepository store repository backed by db
func NewSQLiteStoreRepository(db *sql.DB) repository.StoreRepository {
	return &sqliteStoreRepository{db: db}
}

func (s *sqliteStoreRepository) SaveStore(ctx context.Context, store entity.Store) error {
	if store.ID == "" {
		return repository.Upstream("save store", errEmptyID)
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO stores (id, name, address) VALUES (?, ?, ?)`,
		store.ID, store.Name, store.Address)
	return repository.Upstream("save store", err)
}

func (s *sqliteStoreRepository) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	var store entity.Store
	err := s.db.QueryRowContext(ctx, `SELECT id, name, address FROM stores WHERE id = ?`, id).
		Scan(&store.ID, &store.Name, &store.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, repository.Upstream("get store", err)
	}
	return &store, nil
}

func (s *sqliteStoreRepository) GetAll(ctx context.Context) ([]entity.Store, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, address FROM stores ORDER BY name, id`)
	if err != nil {
		return nil, repository.Upstream("list stores", err)
	}
	defer rows.Close()

	var stores []entity.Store
	for rows.Next() {
		var store entity.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Address); err != nil {
			return nil, repository.Upstream("list stores", err)
		}
		stores = append(stores, store)
	}
	return stores, repository.Upstream("list stores", rows.Err())
}

type sqlitePriceRepository struct {
	db *sql.DB
}

// NewSQLitePriceRepository price history backed by db
func NewSQLitePriceRepository(db *sql.DB) repository.PriceRepository {
	return &sqlitePriceRepository{db: db}
}

// ListByProduct newest observation first, stores joined when they still exist
func (s *sqlitePriceRepository) ListByProduct(ctx context.Context, productID string) ([]entity.PriceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT pr.id, pr.product_id, pr.store_id, pr.price, pr.observed_at, st.id, st.name, st.address
FROM prices pr
LEFT JOIN stores st ON st.id = pr.store_id
WHERE pr.product_id = ?
ORDER BY pr.observed_at DESC`, productID)
	if err != nil {
		return nil, repository.Upstream("list prices", err)
	}
	defer rows.Close()

	var records []entity.PriceRecord
	for rows.Next() {
		var (
			record                       entity.PriceRecord
			storeID, storeName, storeAdr sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.ProductID, &record.StoreID, &record.Amount, &record.ObservedAt,
			&storeID, &storeName, &storeAdr); err != nil {
			return nil, repository.Upstream("list prices", err)
		}
		if storeID.Valid {
			record.Store = &entity.Store{ID: storeID.String, Name: storeName.String, Address: storeAdr.String}
		}
		records = append(records, record)
	}
	return records, repository.Upstream("list prices", rows.Err())
}

// Create inserts the record after checking that product and store exist
func (s *sqlitePriceRepository) Create(ctx context.Context, record entity.PriceRecord) (*entity.PriceRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, repository.Upstream("create price", err)
	}

	if err := rowExists(ctx, tx, `SELECT 1 FROM products WHERE id = ?`, record.ProductID); err != nil {
		tx.Rollback()
		return nil, err
	}

	var store entity.Store
	err = tx.QueryRowContext(ctx, `SELECT id, name, address FROM stores WHERE id = ?`, record.StoreID).
		Scan(&store.ID, &store.Name, &store.Address)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return nil, repository.ErrNotFound
	}
	if err != nil {
		tx.Rollback()
		return nil, repository.Upstream("create price", err)
	}

	record.ID = uuid.New().String()
	_, err = tx.ExecContext(ctx, `INSERT INTO prices (id, product_id, store_id, price, observed_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.ProductID, record.StoreID, record.Amount.String(), record.ObservedAt.UTC())
	if err != nil {
		tx.Rollback()
		return nil, repository.Upstream("create price", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, repository.Upstream("create price", err)
	}

	record.Store = &store
	return &record, nil
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return repository.Upstream("lookup", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
