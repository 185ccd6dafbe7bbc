package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every repository, sharing one connection (or one transaction)
type Repository struct {
	db *gorm.DB

	User     UserRepository
	Slot     SlotRepository
	Exchange ExchangeRepository
}

// NewRepository builds the aggregate over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		User:     NewUserRepo(db),
		Slot:     NewSlotRepo(db),
		Exchange: NewExchangeRepo(db),
	}
}

// BeginTx starts a transaction. It returns nil when the aggregate has no database
// handle (mock-backed aggregates in unit tests); callers must tolerate a nil tx.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns an aggregate whose repositories all run inside tx.
// A nil tx returns the receiver unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction runs fn against a transactional aggregate; any error rolls every write back.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
