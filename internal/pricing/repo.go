package pricing

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// Repository manages persistence for the price catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListEntries(ctx context.Context) ([]models.PriceEntry, error)
	FindByParcelType(ctx context.Context, parcelType enums.ParcelType) (*models.PriceEntry, error)
	Upsert(ctx context.Context, entry *models.PriceEntry) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListEntries(ctx context.Context) ([]models.PriceEntry, error) {
	var entries []models.PriceEntry
	if err := r.db.WithContext(ctx).
		Order("parcel_type ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindByParcelType(ctx context.Context, parcelType enums.ParcelType) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := r.db.WithContext(ctx).
		Where("parcel_type = ?", parcelType).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Upsert(ctx context.Context, entry *models.PriceEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "parcel_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "amount_pence", "currency", "updated_at"}),
		}).
		Create(entry).Error
}
