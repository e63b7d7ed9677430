package repository

import (
	"context"
	"time"

	"github.com/utafrali/CatalogGo/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	BrandID    *string
	CategoryID *string
	Status     *string
	Search     *string
	// Specs holds whitelisted spec-key filters matched against the
	// product's specs JSONB object.
	Specs   map[string]string
	SortBy  string
	Page    int
	PerPage int
}

// BrandRepository defines the interface for brand persistence operations.
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	GetByID(ctx context.Context, id string) (*domain.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Brand, error)
	List(ctx context.Context, activeOnly bool, page, perPage int) ([]domain.Brand, int, error)
	Update(ctx context.Context, brand *domain.Brand) error
	// Delete removes a brand. Brands still referenced by products are not
	// deleted; a conflict error is returned instead.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListAll(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete removes a category after re-parenting its children to the
	// deleted node's parent. Categories still referenced by products are
	// not deleted; a conflict error is returned instead.
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	// Delete removes a product. Products that still have variants are not
	// deleted; a conflict error is returned instead.
	Delete(ctx context.Context, id string) error
}

// VariantRepository defines the interface for variant persistence operations.
type VariantRepository interface {
	Create(ctx context.Context, variant *domain.Variant) error
	// CreateWithDiscount inserts a variant and its initial discount in a
	// single transaction. Either both rows are written or neither is.
	CreateWithDiscount(ctx context.Context, variant *domain.Variant, discount *domain.Discount) error
	GetByID(ctx context.Context, id string) (*domain.Variant, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Variant, error)
	Update(ctx context.Context, variant *domain.Variant) error
	Delete(ctx context.Context, id string) error
}

// DiscountRepository defines the interface for discount persistence operations.
type DiscountRepository interface {
	Create(ctx context.Context, discount *domain.Discount) error
	GetByID(ctx context.Context, id string) (*domain.Discount, error)
	// GetActiveByVariant returns the discount whose window covers now, or
	// a not-found error when the variant has no active discount.
	GetActiveByVariant(ctx context.Context, variantID string, now time.Time) (*domain.Discount, error)
	// GetActiveByVariants batch-loads active discounts for multiple
	// variants, keyed by variant ID. Variants without an active discount
	// are absent from the map.
	GetActiveByVariants(ctx context.Context, variantIDs []string, now time.Time) (map[string]domain.Discount, error)
	ListByVariant(ctx context.Context, variantID string) ([]domain.Discount, error)
	// FindOverlapping returns discounts on the variant whose window
	// intersects [startsAt, endsAt).
	FindOverlapping(ctx context.Context, variantID string, startsAt, endsAt time.Time) ([]domain.Discount, error)
	Delete(ctx context.Context, id string) error
}

// ImageRepository defines the interface for product image persistence operations.
type ImageRepository interface {
	// Create inserts an image. When the image is primary, any previous
	// primary image for the same target is demoted in the same transaction.
	Create(ctx context.Context, image *domain.ProductImage) error
	GetByID(ctx context.Context, id string) (*domain.ProductImage, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error)
	ListByVariant(ctx context.Context, variantID string) ([]domain.ProductImage, error)
	// GetPrimaryByProducts batch-loads primary images for multiple
	// products, keyed by product ID.
	GetPrimaryByProducts(ctx context.Context, productIDs []string) (map[string]domain.ProductImage, error)
	Update(ctx context.Context, image *domain.ProductImage) error
	Delete(ctx context.Context, id string) error
}
