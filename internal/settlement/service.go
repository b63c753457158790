package settlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/internal/drivers"
	"github.com/postin54-boop/mani-me-sub002/internal/shipments"
	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/metrics"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox/payloads"
	"github.com/postin54-boop/mani-me-sub002/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns the cash reconciliation ledger. Expected amounts are always
// recomputed server-side from the covered shipments; the reported amount is
// the driver's claim, and the discrepancy between them is informational —
// the admin decision is authoritative, with no automatic tolerance band.
type Service interface {
	OpenReport(ctx context.Context, input OpenReportInput) (*models.SettlementReport, error)
	ResolveReport(ctx context.Context, input ResolveReportInput) (*models.SettlementReport, error)
	Get(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error)
	PendingReports(ctx context.Context) ([]models.SettlementReport, error)
	DriverReports(ctx context.Context, driverID uuid.UUID, params pagination.Params) (*DriverReportsPage, error)
}

// DriverReportsPage is one page of a driver's report history.
type DriverReportsPage struct {
	Reports    []models.SettlementReport `json:"reports"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

type service struct {
	repo         Repository
	shipmentRepo shipments.Repository
	driverRepo   drivers.Repository
	tx           txRunner
	outbox       outboxPublisher
	metrics      *metrics.ShipmentMetrics
}

// OpenReportInput is a driver's end-of-shift cash declaration.
type OpenReportInput struct {
	DriverID      uuid.UUID
	ReportedPence int64
	PhotoRef      string
	Currency      enums.Currency
	ShiftDate     time.Time
	ShipmentIDs   []uuid.UUID
	Actor         *outbox.ActorRef
}

// ResolveReportInput is an admin decision on a pending report.
type ResolveReportInput struct {
	ReportID   uuid.UUID
	Decision   enums.SettlementStatus
	ReviewerID uuid.UUID
	Notes      string
	Actor      *outbox.ActorRef
}

// NewService wires the settlement service with its dependencies.
func NewService(repo Repository, shipmentRepo shipments.Repository, driverRepo drivers.Repository, tx txRunner, outboxSvc outboxPublisher, m *metrics.ShipmentMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settlement repository required")
	}
	if shipmentRepo == nil {
		return nil, fmt.Errorf("shipments repository required")
	}
	if driverRepo == nil {
		return nil, fmt.Errorf("drivers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:         repo,
		shipmentRepo: shipmentRepo,
		driverRepo:   driverRepo,
		tx:           tx,
		outbox:       outboxSvc,
		metrics:      m,
	}, nil
}

func (s *service) OpenReport(ctx context.Context, input OpenReportInput) (*models.SettlementReport, error) {
	if input.DriverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	if input.ReportedPence < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reported amount must not be negative")
	}
	if strings.TrimSpace(input.PhotoRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "evidentiary photo reference required")
	}
	if input.ShiftDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift date required")
	}
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyGHS
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown currency %q", currency))
	}

	var report *models.SettlementReport
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		driverRepo := s.driverRepo.WithTx(tx)
		if _, err := driverRepo.FindByID(ctx, input.DriverID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
		}

		covered, err := s.shipmentRepo.WithTx(tx).FindByIDs(ctx, input.ShipmentIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load covered shipments")
		}
		if len(covered) != len(input.ShipmentIDs) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "one or more covered shipments not found")
		}

		// expected cash = sum of final prices of the cash shipments only
		var expected int64
		lines := make([]models.SettlementShipment, 0, len(covered))
		for _, shipment := range covered {
			amount := int64(0)
			if shipment.PaymentMethod == enums.PaymentMethodCash {
				amount = shipment.FinalPricePence
				expected += amount
			}
			lines = append(lines, models.SettlementShipment{
				ShipmentID:  shipment.ID,
				AmountPence: amount,
			})
		}

		now := time.Now()
		report = &models.SettlementReport{
			DriverID:         input.DriverID,
			ReportedPence:    input.ReportedPence,
			ExpectedPence:    expected,
			DiscrepancyPence: input.ReportedPence - expected,
			PhotoRef:         strings.TrimSpace(input.PhotoRef),
			Currency:         currency,
			ShiftDate:        input.ShiftDate,
			Status:           enums.SettlementStatusPending,
			SubmittedAt:      now,
			CoveredShipments: lines,
		}
		if err := s.repo.WithTx(tx).Create(ctx, report); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create settlement report")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSettlementOpened,
			AggregateType: enums.AggregateSettlementReport,
			AggregateID:   report.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.SettlementOpenedEvent{
				ReportID:         report.ID,
				DriverID:         report.DriverID,
				ReportedPence:    report.ReportedPence,
				ExpectedPence:    report.ExpectedPence,
				DiscrepancyPence: report.DiscrepancyPence,
				ShiftDate:        report.ShiftDate,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *service) ResolveReport(ctx context.Context, input ResolveReportInput) (*models.SettlementReport, error) {
	if input.ReportID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report id required")
	}
	if input.ReviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id required")
	}
	if input.Decision != enums.SettlementStatusApproved && input.Decision != enums.SettlementStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid decision %q", input.Decision))
	}
	notes := strings.TrimSpace(input.Notes)
	if input.Decision == enums.SettlementStatusRejected && notes == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection requires a reason")
	}

	var report *models.SettlementReport
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindByID(ctx, input.ReportID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "settlement report not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settlement report")
		}
		if loaded.Status.IsResolved() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "report already resolved")
		}

		now := time.Now()
		resolved, err := repo.Resolve(ctx, loaded.ID, input.Decision, input.ReviewerID, notes, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve settlement report")
		}
		if !resolved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "report already resolved")
		}

		loaded.Status = input.Decision
		loaded.ReviewerID = &input.ReviewerID
		loaded.ReviewNotes = &notes
		loaded.ResolvedAt = &now
		report = loaded

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSettlementResolved,
			AggregateType: enums.AggregateSettlementReport,
			AggregateID:   loaded.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.SettlementResolvedEvent{
				ReportID:   loaded.ID,
				DriverID:   loaded.DriverID,
				Decision:   input.Decision,
				ReviewerID: input.ReviewerID,
				ResolvedAt: now,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSettlementResolution(string(input.Decision))
	return report, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.SettlementReport, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report id required")
	}
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "settlement report not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settlement report")
	}
	return report, nil
}

func (s *service) PendingReports(ctx context.Context) ([]models.SettlementReport, error) {
	reports, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending reports")
	}
	return reports, nil
}

func (s *service) DriverReports(ctx context.Context, driverID uuid.UUID, params pagination.Params) (*DriverReportsPage, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	reports, err := s.repo.ListByDriver(ctx, driverID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list driver reports")
	}

	page := &DriverReportsPage{Reports: reports}
	if len(reports) > limit {
		page.Reports = reports[:limit]
		last := page.Reports[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.SubmittedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}
