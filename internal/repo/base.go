// Package repo holds what the gorm-backed repositories share: a context-bound
// handle, transactions and common query scopes.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the handle bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		ctx = context.Background()
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn in one transaction. Returning an error or panicking
// rolls back.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// Active keeps rows whose active flag is set.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// ByID matches the primary key column id.
func ByID(id any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

// Oldest orders by creation time with id as the tie breaker, so repeated
// reads return rows in the same order.
func Oldest(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "created_at"}},
		{Column: clause.Column{Name: "id"}},
	}})
}
