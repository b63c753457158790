package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	"github.com/postin54-boop/mani-me-sub002/pkg/pagination"
)

// Repository manages persistence for cash settlement reports.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, report *models.SettlementReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error)
	ListPending(ctx context.Context) ([]models.SettlementReport, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.SettlementReport, error)
	Resolve(ctx context.Context, id uuid.UUID, decision enums.SettlementStatus, reviewerID uuid.UUID, notes string, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settlement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, report *models.SettlementReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error) {
	var report models.SettlementReport
	err := r.db.WithContext(ctx).
		Preload("CoveredShipments").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repository) ListPending(ctx context.Context) ([]models.SettlementReport, error) {
	var reports []models.SettlementReport
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.SettlementStatusPending).
		Order("submitted_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// ListByDriver pages a driver's reports newest first. The cursor keys on
// (submitted_at, id) so rows submitted in the same instant page stably.
func (r *repository) ListByDriver(ctx context.Context, driverID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.SettlementReport, error) {
	query := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("submitted_at DESC").
		Order("id DESC")
	if cursor != nil {
		query = query.Where("(submitted_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var reports []models.SettlementReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Resolve closes the report only while it is still pending, so the second of
// two concurrent resolutions fails instead of overwriting the first.
func (r *repository) Resolve(ctx context.Context, id uuid.UUID, decision enums.SettlementStatus, reviewerID uuid.UUID, notes string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SettlementReport{}).
		Where("id = ? AND status = ?", id, enums.SettlementStatusPending).
		Updates(map[string]any{
			"status":       decision,
			"reviewer_id":  reviewerID,
			"review_notes": notes,
			"resolved_at":  at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
