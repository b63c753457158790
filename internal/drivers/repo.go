package drivers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// ListFilter narrows driver queries to a region scope and/or active flag.
type ListFilter struct {
	Scope  *enums.RegionScope
	Active *bool
}

// Repository manages persistence for the driver registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, driver *models.Driver) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	List(ctx context.Context, filter ListFilter) ([]models.Driver, error)
	Deactivate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a driver repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).Create(driver).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Driver, error) {
	query := r.db.WithContext(ctx).Model(&models.Driver{})
	if filter.Scope != nil {
		query = query.Where("region_scope = ?", *filter.Scope)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	var out []models.Driver
	if err := query.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Deactivate flips the active flag only if it is still set, so a repeated
// deactivation reports false instead of moving the timestamp.
func (r *repository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Driver{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{"active": false, "deactivated_at": at})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
