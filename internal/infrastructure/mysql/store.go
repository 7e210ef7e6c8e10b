package mysql

import (
	"context"

	"github.com/Fubuki233/WebAppDev-Ca-sub000/internal/storage"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the tables this core owns.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&productRow{},
		&cartRow{},
		&orderRow{},
		&orderItemRow{},
		&returnRow{},
	)
}

func (s *Store) Stores() storage.Stores {
	return storesOn(s.db, false)
}

// RunInTx maps the workflow transaction boundary onto a single database
// transaction; gorm rolls back when fn returns an error.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, st storage.Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, storesOn(tx, true))
	})
}

// storesOn builds the repository bundle on db. Inside a transaction the
// order repository locks rows it reads, so two transactions transitioning
// the same order serialize instead of overwriting each other's status.
func storesOn(db *gorm.DB, inTx bool) storage.Stores {
	return storage.Stores{
		Orders:    &orderRepo{db: db, lockReads: inTx},
		Carts:     &cartRepo{db: db},
		Inventory: &inventoryRepo{db: db},
		Returns:   &returnsRepo{db: db},
	}
}
