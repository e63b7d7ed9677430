package domain

import "time"

// Product status constants.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// Sort order constants for product listings.
const (
	SortByNewest   = "newest"
	SortByNameAsc  = "name_asc"
	SortByNameDesc = "name_desc"
)

// Product represents a base product in the catalog. Sellable units are its
// variants; the base product carries the shared identity and spec sheet.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	BrandID     string         `json:"brand_id"`
	CategoryID  string         `json:"category_id"`
	Specs       map[string]any `json:"specs,omitempty"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ValidStatuses returns the set of valid product statuses.
func ValidStatuses() []string {
	return []string{ProductStatusDraft, ProductStatusPublished, ProductStatusArchived}
}

// IsValidStatus checks whether the given status string is a valid product status.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ValidSortBys returns the set of valid product sort orders.
func ValidSortBys() []string {
	return []string{SortByNewest, SortByNameAsc, SortByNameDesc}
}

// IsValidSortBy checks whether the given sort order is valid for product listings.
func IsValidSortBy(sortBy string) bool {
	for _, s := range ValidSortBys() {
		if s == sortBy {
			return true
		}
	}
	return false
}
