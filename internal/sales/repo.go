package sales

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/internal/repo"
	"github.com/angelmondragon/tillpoint-backend/pkg/db"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

var (
	// ErrDuplicateOrderNumber is returned when the store already has a sale with the order number.
	ErrDuplicateOrderNumber = errors.New("order number already recorded")
	// ErrSaleNotFound is returned when no sale matches the lookup.
	ErrSaleNotFound = errors.New("sale not found")
)

// Repository persists sale records. Sales are written once and never updated.
type Repository interface {
	Create(ctx context.Context, sale *models.Sale) error
	FindByOrderNumber(ctx context.Context, storeID, orderNumber string) (*models.Sale, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a relational sale repository.
func NewRepository(db *gorm.DB) Repository {
	if db == nil {
		return nil
	}
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	if sale == nil {
		return errors.New("sale required")
	}
	if err := r.DB(ctx).Create(sale).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, storeID, orderNumber string) (*models.Sale, error) {
	var sale models.Sale
	err := r.DB(ctx).
		Where("store_id = ? AND order_number = ?", strings.TrimSpace(storeID), strings.TrimSpace(orderNumber)).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return &sale, nil
}
