package domain

import "github.com/shopspring/decimal"

// VariantDetail is a variant enriched with its current discount and the
// price and availability a buyer sees right now.
type VariantDetail struct {
	Variant
	Discount       *Discount       `json:"discount,omitempty"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Available      bool            `json:"available"`
}

// ProductDetail is an enriched product response containing brand, category,
// images, and priced variants alongside the base product fields.
type ProductDetail struct {
	Product
	Brand    *Brand          `json:"brand,omitempty"`
	Category *Category       `json:"category,omitempty"`
	Images   []ProductImage  `json:"images"`
	Variants []VariantDetail `json:"variants"`
}

// ProductListItem is a product summary for list endpoints that includes the
// primary image when available.
type ProductListItem struct {
	Product
	PrimaryImage *ProductImage `json:"primary_image,omitempty"`
}
