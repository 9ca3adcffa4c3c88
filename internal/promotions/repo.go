package promotions

import (
	"context"

	"github.com/angelmondragon/tillpoint-backend/internal/repo"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and writes stored specials.
type Repository interface {
	ListActive(ctx context.Context) ([]models.Special, error)
	Create(ctx context.Context, special *models.Special) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a specials repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// ListActive returns active specials in authoring order. The order is stable
// so evaluation stays reproducible across reads.
func (r *repository) ListActive(ctx context.Context) ([]models.Special, error) {
	var specials []models.Special
	err := r.DB(ctx).
		Scopes(repo.Active, repo.Oldest).
		Find(&specials).Error
	if err != nil {
		return nil, err
	}
	return specials, nil
}

func (r *repository) Create(ctx context.Context, special *models.Special) error {
	return r.DB(ctx).Create(special).Error
}
