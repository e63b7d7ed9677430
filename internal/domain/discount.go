package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount type constants.
const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
)

// Discount represents a time-windowed price reduction attached to a variant.
// A variant has at most one discount active at any point in time.
type Discount struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// ValidDiscountTypes returns the set of valid discount types.
func ValidDiscountTypes() []string {
	return []string{DiscountPercentage, DiscountFixedAmount}
}

// IsValidDiscountType checks whether the given discount type string is valid.
func IsValidDiscountType(discountType string) bool {
	for _, t := range ValidDiscountTypes() {
		if t == discountType {
			return true
		}
	}
	return false
}

// ActiveAt reports whether the discount window covers the given instant.
// The window is half-open: starts_at inclusive, ends_at exclusive.
func (d *Discount) ActiveAt(now time.Time) bool {
	return !now.Before(d.StartsAt) && now.Before(d.EndsAt)
}

// Overlaps reports whether two time windows intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// EffectivePrice returns the price a buyer pays at the given instant. When
// the discount is nil or its window does not cover now, the list price is
// returned unchanged. A percentage discount reduces the price by value
// percent; a fixed amount is subtracted directly. The result never drops
// below zero.
func EffectivePrice(price decimal.Decimal, discount *Discount, now time.Time) decimal.Decimal {
	if discount == nil || !discount.ActiveAt(now) {
		return price
	}

	var reduced decimal.Decimal
	switch discount.Type {
	case DiscountPercentage:
		factor := decimal.NewFromInt(100).Sub(discount.Value).Div(decimal.NewFromInt(100))
		reduced = price.Mul(factor).Round(2)
	case DiscountFixedAmount:
		reduced = price.Sub(discount.Value)
	default:
		return price
	}

	if reduced.IsNegative() {
		return decimal.Zero
	}
	return reduced
}
