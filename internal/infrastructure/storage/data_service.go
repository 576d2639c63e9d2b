package storage

import (
	"database/sql"

	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
)

// DataService the three ports of the external data service behind one handle
type DataService struct {
	Products repository.ProductRepository
	Stores   repository.StoreRepository
	Prices   repository.PriceRepository

	db *sql.DB
}

// NewMemoryDataService process-local data service, used by tests and the memory backend
func NewMemoryDataService() *DataService {
	products := NewMemoryProductRepository()
	stores := NewMemoryStoreRepository()
	return &DataService{
		Products: products,
		Stores:   stores,
		Prices:   NewMemoryPriceRepository(stores, products),
	}
}

// NewSQLiteDataService data service persisted in a sqlite file
func NewSQLiteDataService(dbPath string) (*DataService, error) {
	db, err := OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	return &DataService{
		Products: NewSQLiteProductRepository(db),
		Stores:   NewSQLiteStoreRepository(db),
		Prices:   NewSQLitePriceRepository(db),
		db:       db,
	}, nil
}

// Close releases the database, a no-op for the memory backend
func (d *DataService) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
