package promo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postin54-boop/mani-me-sub002/pkg/db/models"
	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
	pkgerrors "github.com/postin54-boop/mani-me-sub002/pkg/errors"
	"github.com/postin54-boop/mani-me-sub002/pkg/outbox"
)

type fakeRepository struct {
	promosByCode map[string]*models.PromoCode
	promosByID   map[uuid.UUID]*models.PromoCode
	redemptions  map[string]*models.PromoRedemption
	incrementFn  func(ctx context.Context, id uuid.UUID) (bool, error)
	created      []*models.PromoCode
}

func newFakeRepository(promos ...*models.PromoCode) *fakeRepository {
	f := &fakeRepository{
		promosByCode: map[string]*models.PromoCode{},
		promosByID:   map[uuid.UUID]*models.PromoCode{},
		redemptions:  map[string]*models.PromoRedemption{},
	}
	for _, p := range promos {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.promosByCode[p.Code] = p
		f.promosByID[p.ID] = p
	}
	return f
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	promo.ID = uuid.New()
	f.promosByCode[promo.Code] = promo
	f.promosByID[promo.ID] = promo
	f.created = append(f.created, promo)
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	if p, ok := f.promosByID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	if p, ok := f.promosByCode[code]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.PromoCode, error) {
	var out []models.PromoCode
	for _, p := range f.promosByCode {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepository) SetStatus(ctx context.Context, id uuid.UUID, status enums.PromoStatus) error {
	if p, ok := f.promosByID[id]; ok {
		p.Status = status
	}
	return nil
}

func (f *fakeRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.incrementFn != nil {
		return f.incrementFn(ctx, id)
	}
	p, ok := f.promosByID[id]
	if !ok {
		return false, nil
	}
	if p.UsedCount >= p.UsageLimit {
		return false, nil
	}
	p.UsedCount++
	return true, nil
}

func (f *fakeRepository) CreateRedemption(ctx context.Context, redemption *models.PromoRedemption) error {
	redemption.ID = uuid.New()
	f.redemptions[redemption.IdempotencyKey] = redemption
	return nil
}

func (f *fakeRepository) FindRedemptionByKey(ctx context.Context, key string) (*models.PromoRedemption, error) {
	if r, ok := f.redemptions[key]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

func activePromo(code string, discountType enums.DiscountType, value int64) *models.PromoCode {
	return &models.PromoCode{
		ID:            uuid.New(),
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		MinOrderPence: 1000,
		UsageLimit:    100,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		Status:        enums.PromoStatusActive,
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, &fakeOutbox{}, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestPreview_PercentageDiscount(t *testing.T) {
	repo := newFakeRepository(activePromo("WELCOME10", enums.DiscountTypePercentage, 10))
	svc := newTestService(t, repo)

	app, err := svc.Preview(context.Background(), "welcome10", 5000)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if app.DiscountPence != 500 || app.FinalPence != 4500 {
		t.Fatalf("expected 500 off 5000, got discount=%d final=%d", app.DiscountPence, app.FinalPence)
	}
}

func TestPreview_FixedDiscountClampedToSubtotal(t *testing.T) {
	repo := newFakeRepository(activePromo("SHIP20", enums.DiscountTypeFixed, 2000))
	svc := newTestService(t, repo)

	app, err := svc.Preview(context.Background(), "SHIP20", 1500)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if app.DiscountPence != 1500 || app.FinalPence != 0 {
		t.Fatalf("expected clamp to subtotal, got discount=%d final=%d", app.DiscountPence, app.FinalPence)
	}
}

func TestPreview_PercentageCappedByMaxDiscount(t *testing.T) {
	promo := activePromo("BIG50", enums.DiscountTypePercentage, 50)
	cap := int64(1000)
	promo.MaxDiscountPence = &cap
	repo := newFakeRepository(promo)
	svc := newTestService(t, repo)

	app, err := svc.Preview(context.Background(), "BIG50", 10000)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if app.DiscountPence != 1000 || app.FinalPence != 9000 {
		t.Fatalf("expected cap at 1000, got discount=%d final=%d", app.DiscountPence, app.FinalPence)
	}
}

func TestPreview_RejectionLadder(t *testing.T) {
	inactive := activePromo("INACTIVE", enums.DiscountTypeFixed, 500)
	inactive.Status = enums.PromoStatusInactive

	expired := activePromo("EXPIRED", enums.DiscountTypeFixed, 500)
	expired.ExpiresAt = time.Now().Add(-time.Hour)

	exhausted := activePromo("USEDUP", enums.DiscountTypeFixed, 500)
	exhausted.UsedCount = exhausted.UsageLimit

	repo := newFakeRepository(inactive, expired, exhausted, activePromo("MIN10", enums.DiscountTypeFixed, 500))
	svc := newTestService(t, repo)

	tests := []struct {
		name     string
		code     string
		subtotal int64
		wantCode pkgerrors.Code
	}{
		{name: "code not found", code: "NOPE", subtotal: 5000, wantCode: pkgerrors.CodeNotFound},
		{name: "inactive", code: "INACTIVE", subtotal: 5000, wantCode: pkgerrors.CodePolicy},
		{name: "expired", code: "EXPIRED", subtotal: 5000, wantCode: pkgerrors.CodePolicy},
		{name: "usage limit reached", code: "USEDUP", subtotal: 5000, wantCode: pkgerrors.CodePolicy},
		{name: "below minimum order", code: "MIN10", subtotal: 500, wantCode: pkgerrors.CodePolicy},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Preview(context.Background(), tc.code, tc.subtotal)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestRedeem_ConsumesUsageAndEmitsEvent(t *testing.T) {
	promo := activePromo("WELCOME10", enums.DiscountTypePercentage, 10)
	repo := newFakeRepository(promo)
	sink := &fakeOutbox{}
	svc, err := NewService(repo, sink, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	app, err := svc.Redeem(context.Background(), &gorm.DB{}, RedeemInput{
		Code:           "WELCOME10",
		SubtotalPence:  5000,
		IdempotencyKey: "booking-1",
	})
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if app.FinalPence != 4500 {
		t.Fatalf("unexpected final amount: %d", app.FinalPence)
	}
	if promo.UsedCount != 1 {
		t.Fatalf("expected one usage consumed, got %d", promo.UsedCount)
	}
	if len(sink.events) != 1 || sink.events[0].EventType != enums.EventPromoRedeemed {
		t.Fatalf("expected promo.redeemed event, got %+v", sink.events)
	}
}

func TestRedeem_ReplaysStoredOutcome(t *testing.T) {
	promo := activePromo("WELCOME10", enums.DiscountTypePercentage, 10)
	repo := newFakeRepository(promo)
	svc := newTestService(t, repo)

	input := RedeemInput{Code: "WELCOME10", SubtotalPence: 5000, IdempotencyKey: "booking-1"}
	first, err := svc.Redeem(context.Background(), &gorm.DB{}, input)
	if err != nil {
		t.Fatalf("first Redeem error: %v", err)
	}
	second, err := svc.Redeem(context.Background(), &gorm.DB{}, input)
	if err != nil {
		t.Fatalf("retried Redeem error: %v", err)
	}
	if second.DiscountPence != first.DiscountPence || second.FinalPence != first.FinalPence {
		t.Fatalf("replay mismatch: %+v vs %+v", first, second)
	}
	if promo.UsedCount != 1 {
		t.Fatalf("retry double-counted usage: %d", promo.UsedCount)
	}
}

func TestRedeem_KeyReusedForDifferentRequest(t *testing.T) {
	promo := activePromo("WELCOME10", enums.DiscountTypePercentage, 10)
	repo := newFakeRepository(promo)
	svc := newTestService(t, repo)

	if _, err := svc.Redeem(context.Background(), &gorm.DB{}, RedeemInput{
		Code: "WELCOME10", SubtotalPence: 5000, IdempotencyKey: "booking-1",
	}); err != nil {
		t.Fatalf("first Redeem error: %v", err)
	}

	_, err := svc.Redeem(context.Background(), &gorm.DB{}, RedeemInput{
		Code: "WELCOME10", SubtotalPence: 9000, IdempotencyKey: "booking-1",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeIdempotency {
		t.Fatalf("expected idempotency error, got %v", err)
	}
}

func TestRedeem_RaceLoserRejected(t *testing.T) {
	promo := activePromo("LAST1", enums.DiscountTypeFixed, 500)
	repo := newFakeRepository(promo)
	repo.incrementFn = func(ctx context.Context, id uuid.UUID) (bool, error) {
		// another transaction took the final slot between read and increment
		return false, nil
	}
	svc := newTestService(t, repo)

	_, err := svc.Redeem(context.Background(), &gorm.DB{}, RedeemInput{
		Code: "LAST1", SubtotalPence: 5000, IdempotencyKey: "booking-2",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePolicy {
		t.Fatalf("expected policy rejection for race loser, got %v", err)
	}
}

func TestCreatePromo_Validation(t *testing.T) {
	svc := newTestService(t, newFakeRepository())

	tests := []struct {
		name  string
		input CreatePromoInput
	}{
		{name: "missing code", input: CreatePromoInput{DiscountType: enums.DiscountTypeFixed, DiscountValue: 100, UsageLimit: 1, ExpiresAt: time.Now().Add(time.Hour)}},
		{name: "bad discount type", input: CreatePromoInput{Code: "X", DiscountType: "bogo", DiscountValue: 100, UsageLimit: 1, ExpiresAt: time.Now().Add(time.Hour)}},
		{name: "zero value", input: CreatePromoInput{Code: "X", DiscountType: enums.DiscountTypeFixed, UsageLimit: 1, ExpiresAt: time.Now().Add(time.Hour)}},
		{name: "percentage over 100", input: CreatePromoInput{Code: "X", DiscountType: enums.DiscountTypePercentage, DiscountValue: 150, UsageLimit: 1, ExpiresAt: time.Now().Add(time.Hour)}},
		{name: "zero usage limit", input: CreatePromoInput{Code: "X", DiscountType: enums.DiscountTypeFixed, DiscountValue: 100, ExpiresAt: time.Now().Add(time.Hour)}},
		{name: "missing expiry", input: CreatePromoInput{Code: "X", DiscountType: enums.DiscountTypeFixed, DiscountValue: 100, UsageLimit: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreatePromo(context.Background(), tc.input); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestCreatePromo_NormalizesCode(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	promo, err := svc.CreatePromo(context.Background(), CreatePromoInput{
		Code:          "  welcome10 ",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 10,
		UsageLimit:    50,
		ExpiresAt:     time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreatePromo error: %v", err)
	}
	if promo.Code != "WELCOME10" {
		t.Fatalf("expected normalized code, got %q", promo.Code)
	}
}

func TestSetStatus_Toggle(t *testing.T) {
	promo := activePromo("WELCOME10", enums.DiscountTypePercentage, 10)
	repo := newFakeRepository(promo)
	svc := newTestService(t, repo)

	updated, err := svc.SetStatus(context.Background(), "WELCOME10", enums.PromoStatusInactive)
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if updated.Status != enums.PromoStatusInactive {
		t.Fatalf("expected inactive, got %s", updated.Status)
	}
}
