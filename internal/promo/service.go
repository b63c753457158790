package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db"
	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/metrics"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox/payloads"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the only place discounts are computed. Preview runs the full
// rejection ladder without consuming usage; Redeem consumes exactly one usage
// slot per idempotency key, however many times the request is retried.
type Service interface {
	Preview(ctx context.Context, code string, subtotalPence int64) (*Application, error)
	Redeem(ctx context.Context, tx *gorm.DB, input RedeemInput) (*Application, error)
	CreatePromo(ctx context.Context, input CreatePromoInput) (*models.PromoCode, error)
	SetStatus(ctx context.Context, code string, status enums.PromoStatus) (*models.PromoCode, error)
	List(ctx context.Context) ([]models.PromoCode, error)
}

type service struct {
	repo    Repository
	outbox  outboxPublisher
	metrics *metrics.ShipmentMetrics
}

// Application is the outcome of a successful discount computation.
type Application struct {
	PromoCodeID   uuid.UUID `json:"promo_code_id"`
	Code          string    `json:"code"`
	SubtotalPence int64     `json:"subtotal_pence"`
	DiscountPence int64     `json:"discount_pence"`
	FinalPence    int64     `json:"final_pence"`
}

// RedeemInput consumes a usage slot inside the caller's transaction.
type RedeemInput struct {
	Code           string
	SubtotalPence  int64
	IdempotencyKey string
	Actor          *outbox.ActorRef
}

// CreatePromoInput carries an admin promo creation.
type CreatePromoInput struct {
	Code             string
	Description      string
	DiscountType     enums.DiscountType
	DiscountValue    int64
	MaxDiscountPence *int64
	MinOrderPence    int64
	UsageLimit       int
	ExpiresAt        time.Time
}

// NewService wires a promo service with its dependencies.
func NewService(repo Repository, outboxSvc outboxPublisher, m *metrics.ShipmentMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, outbox: outboxSvc, metrics: m}, nil
}

// NormalizeCode canonicalizes a promo code for lookup and storage.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) Preview(ctx context.Context, code string, subtotalPence int64) (*Application, error) {
	promo, err := s.lookup(ctx, s.repo, code)
	if err != nil {
		return nil, err
	}
	app, err := apply(promo, subtotalPence, time.Now())
	if err != nil {
		s.metrics.IncPromoRedemption("rejected")
		return nil, err
	}
	return app, nil
}

// Redeem runs the ladder and consumes one usage slot inside tx. The unique
// idempotency key makes a retried booking replay the stored outcome; the
// conditional increment makes the (N+1)-th concurrent attempt lose.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, input RedeemInput) (*Application, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if strings.TrimSpace(input.IdempotencyKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key is required")
	}

	repo := s.repo.WithTx(tx)

	if replayed, err := s.replay(ctx, repo, input); err != nil {
		return nil, err
	} else if replayed != nil {
		return replayed, nil
	}

	promo, err := s.lookup(ctx, repo, input.Code)
	if err != nil {
		return nil, err
	}
	app, err := apply(promo, input.SubtotalPence, time.Now())
	if err != nil {
		s.metrics.IncPromoRedemption("rejected")
		return nil, err
	}

	incremented, err := repo.IncrementUsage(ctx, promo.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment promo usage")
	}
	if !incremented {
		// lost the race for the last slot
		s.metrics.IncPromoRedemption("rejected")
		return nil, pkgerrors.New(pkgerrors.CodePolicy, "usage limit reached")
	}

	redemption := &models.PromoRedemption{
		PromoCodeID:    promo.ID,
		IdempotencyKey: input.IdempotencyKey,
		SubtotalPence:  app.SubtotalPence,
		DiscountPence:  app.DiscountPence,
		FinalPence:     app.FinalPence,
	}
	if err := repo.CreateRedemption(ctx, redemption); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key already used")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record promo redemption")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventPromoRedeemed,
		AggregateType: enums.AggregatePromoCode,
		AggregateID:   promo.ID,
		Version:       1,
		Actor:         input.Actor,
		Data: payloads.PromoRedeemedEvent{
			PromoCodeID:   promo.ID,
			Code:          promo.Code,
			SubtotalPence: app.SubtotalPence,
			DiscountPence: app.DiscountPence,
			FinalPence:    app.FinalPence,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit promo redeemed event")
	}

	s.metrics.IncPromoRedemption("applied")
	return app, nil
}

// replay returns the stored outcome when the idempotency key was already
// consumed with the same subtotal, or an idempotency error when the key is
// being reused for a different request.
func (s *service) replay(ctx context.Context, repo Repository, input RedeemInput) (*Application, error) {
	redemption, err := repo.FindRedemptionByKey(ctx, input.IdempotencyKey)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo redemption")
	}
	if redemption.SubtotalPence != input.SubtotalPence {
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request")
	}
	promo, err := repo.FindByID(ctx, redemption.PromoCodeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo for replay")
	}
	return &Application{
		PromoCodeID:   redemption.PromoCodeID,
		Code:          promo.Code,
		SubtotalPence: redemption.SubtotalPence,
		DiscountPence: redemption.DiscountPence,
		FinalPence:    redemption.FinalPence,
	}, nil
}

func (s *service) lookup(ctx context.Context, repo Repository, code string) (*models.PromoCode, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	promo, err := repo.FindByCode(ctx, normalized)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up promo code")
	}
	return promo, nil
}

// apply walks the rejection ladder in order, then computes the discount.
// Percentage math runs through decimal so pence amounts never touch floats.
func apply(promo *models.PromoCode, subtotalPence int64, now time.Time) (*Application, error) {
	if subtotalPence < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}
	if promo.Status != enums.PromoStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodePolicy, "promo code is inactive")
	}
	if now.After(promo.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodePolicy, "promo code has expired")
	}
	if promo.UsedCount >= promo.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodePolicy, "usage limit reached")
	}
	if subtotalPence < promo.MinOrderPence {
		return nil, pkgerrors.New(pkgerrors.CodePolicy, "order below minimum for promo")
	}

	var discount int64
	switch promo.DiscountType {
	case enums.DiscountTypePercentage:
		raw := decimal.NewFromInt(subtotalPence).
			Mul(decimal.NewFromInt(promo.DiscountValue)).
			Div(decimal.NewFromInt(100))
		discount = raw.Round(0).IntPart()
		if promo.MaxDiscountPence != nil && discount > *promo.MaxDiscountPence {
			discount = *promo.MaxDiscountPence
		}
	case enums.DiscountTypeFixed:
		discount = promo.DiscountValue
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unknown discount type %q", promo.DiscountType))
	}

	// discount never exceeds subtotal; final never goes below zero
	if discount > subtotalPence {
		discount = subtotalPence
	}
	if discount < 0 {
		discount = 0
	}

	return &Application{
		PromoCodeID:   promo.ID,
		Code:          promo.Code,
		SubtotalPence: subtotalPence,
		DiscountPence: discount,
		FinalPence:    subtotalPence - discount,
	}, nil
}

func (s *service) CreatePromo(ctx context.Context, input CreatePromoInput) (*models.PromoCode, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown discount type %q", input.DiscountType))
	}
	if input.DiscountValue <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.DiscountValue > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.MaxDiscountPence != nil && *input.MaxDiscountPence <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max discount must be positive when set")
	}
	if input.MinOrderPence < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order must not be negative")
	}
	if input.UsageLimit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
	}
	if input.ExpiresAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry date is required")
	}

	promo := &models.PromoCode{
		Code:             code,
		Description:      input.Description,
		DiscountType:     input.DiscountType,
		DiscountValue:    input.DiscountValue,
		MaxDiscountPence: input.MaxDiscountPence,
		MinOrderPence:    input.MinOrderPence,
		UsageLimit:       input.UsageLimit,
		ExpiresAt:        input.ExpiresAt,
		Status:           enums.PromoStatusActive,
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "promo code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promo code")
	}
	return promo, nil
}

func (s *service) SetStatus(ctx context.Context, code string, status enums.PromoStatus) (*models.PromoCode, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown promo status %q", status))
	}
	promo, err := s.lookup(ctx, s.repo, code)
	if err != nil {
		return nil, err
	}
	if promo.Status == status {
		return promo, nil
	}
	if err := s.repo.SetStatus(ctx, promo.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promo status")
	}
	promo.Status = status
	return promo, nil
}

func (s *service) List(ctx context.Context) ([]models.PromoCode, error) {
	promos, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promo codes")
	}
	return promos, nil
}
