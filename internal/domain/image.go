package domain

import "time"

// ProductImage represents an image attached to either a product or a single
// variant. Exactly one of ProductID and VariantID is set.
type ProductImage struct {
	ID        string    `json:"id"`
	ProductID *string   `json:"product_id,omitempty"`
	VariantID *string   `json:"variant_id,omitempty"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	SortOrder int       `json:"sort_order"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}
