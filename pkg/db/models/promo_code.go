package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postin54-boop/mani-me-sub002/pkg/enums"
)

// PromoCode is a discount code with redemption constraints and a usage
// counter. DiscountValue is whole percent for percentage promos and pence for
// fixed promos. UsedCount is only ever advanced with a conditional increment
// (used_count < usage_limit) so concurrent redemptions cannot blow the limit.
type PromoCode struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string             `gorm:"column:code;uniqueIndex;not null"`
	Description      string             `gorm:"column:description"`
	DiscountType     enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue    int64              `gorm:"column:discount_value;not null"`
	MaxDiscountPence *int64             `gorm:"column:max_discount_pence"`
	MinOrderPence    int64              `gorm:"column:min_order_pence;not null;default:0"`
	UsageLimit       int                `gorm:"column:usage_limit;not null"`
	UsedCount        int                `gorm:"column:used_count;not null;default:0"`
	ExpiresAt        time.Time          `gorm:"column:expires_at;not null"`
	Status           enums.PromoStatus  `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// PromoRedemption records a successful application of a promo code. The
// unique idempotency key makes retried booking requests replay the stored
// outcome instead of double-counting the usage.
type PromoRedemption struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromoCodeID    uuid.UUID `gorm:"column:promo_code_id;type:uuid;not null"`
	IdempotencyKey string    `gorm:"column:idempotency_key;uniqueIndex;not null"`
	SubtotalPence  int64     `gorm:"column:subtotal_pence;not null"`
	DiscountPence  int64     `gorm:"column:discount_pence;not null"`
	FinalPence     int64     `gorm:"column:final_pence;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
