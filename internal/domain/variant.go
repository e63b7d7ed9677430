package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant condition constants.
const (
	ConditionNew         = "new"
	ConditionOpenBox     = "open_box"
	ConditionRefurbished = "refurbished"
	ConditionUsed        = "used"
)

// Variant stock status constants.
const (
	StockInStock       = "in_stock"
	StockOnTheWay      = "on_the_way"
	StockByImportation = "by_importation"
	StockOutOfStock    = "out_of_stock"
)

// Variant represents a concrete sellable unit of a product: one physical
// condition at one price with its own stock tracking.
type Variant struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	StockStatus string          `json:"stock_status"`
	Quantity    int             `json:"quantity"`
	Description *string         `json:"description,omitempty"`
	IsPublished bool            `json:"is_published"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidConditions returns the set of valid variant conditions.
func ValidConditions() []string {
	return []string{ConditionNew, ConditionOpenBox, ConditionRefurbished, ConditionUsed}
}

// IsValidCondition checks whether the given condition string is valid.
func IsValidCondition(condition string) bool {
	for _, c := range ValidConditions() {
		if c == condition {
			return true
		}
	}
	return false
}

// ValidStockStatuses returns the set of valid stock statuses.
func ValidStockStatuses() []string {
	return []string{StockInStock, StockOnTheWay, StockByImportation, StockOutOfStock}
}

// IsValidStockStatus checks whether the given stock status string is valid.
func IsValidStockStatus(status string) bool {
	for _, s := range ValidStockStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// EffectiveAvailability reports whether a variant can currently be sold.
// An out_of_stock status is authoritative and overrides any leftover
// quantity; otherwise the variant is available while quantity is positive.
func EffectiveAvailability(stockStatus string, quantity int) bool {
	if stockStatus == StockOutOfStock {
		return false
	}
	return quantity > 0
}

// Available reports whether this variant can currently be sold.
func (v *Variant) Available() bool {
	return EffectiveAvailability(v.StockStatus, v.Quantity)
}
