package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/internal/event"
	"github.com/utafrali/CatalogGo/internal/repository"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
	"github.com/utafrali/CatalogGo/pkg/pagination"
	"github.com/utafrali/CatalogGo/pkg/slug"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo       repository.ProductRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
	variants   repository.VariantRepository
	discounts  repository.DiscountRepository
	images     repository.ImageRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	repo repository.ProductRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	variants repository.VariantRepository,
	discounts repository.DiscountRepository,
	images repository.ImageRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:       repo,
		brands:     brands,
		categories: categories,
		variants:   variants,
		discounts:  discounts,
		images:     images,
		producer:   producer,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	BrandID     string
	CategoryID  string
	Specs       map[string]any
}

// UpdateProductInput holds the parameters for updating a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	BrandID     *string
	CategoryID  *string
	Specs       map[string]any
}

// CreateProduct creates a new product with the given input. Brand and
// category must resolve; the slug is derived from brand and product name.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}

	brand, err := s.brands.GetByID(ctx, input.BrandID)
	if err != nil {
		return nil, fmt.Errorf("resolve brand: %w", err)
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slug.Generate(brand.Name + " " + input.Name),
		Description: input.Description,
		BrandID:     input.BrandID,
		CategoryID:  input.CategoryID,
		Specs:       input.Specs,
		Status:      domain.ProductStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if product.Specs == nil {
		product.Specs = make(map[string]any)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProductDetail retrieves a product by ID and enriches it with brand,
// category, images, and priced variants.
func (s *ProductService) GetProductDetail(ctx context.Context, id string) (*domain.ProductDetail, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return s.enrichProduct(ctx, product)
}

// GetProductDetailBySlug retrieves a product by slug and enriches it with
// brand, category, images, and priced variants.
func (s *ProductService) GetProductDetailBySlug(ctx context.Context, slugStr string) (*domain.ProductDetail, error) {
	product, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return s.enrichProduct(ctx, product)
}

// enrichProduct loads brand, category, images, and variants with their
// effective price and availability.
func (s *ProductService) enrichProduct(ctx context.Context, product *domain.Product) (*domain.ProductDetail, error) {
	detail := &domain.ProductDetail{
		Product: *product,
	}

	brand, err := s.brands.GetByID(ctx, product.BrandID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product brand",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	} else {
		detail.Brand = brand
	}

	category, err := s.categories.GetByID(ctx, product.CategoryID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product category",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	} else {
		detail.Category = category
	}

	images, err := s.images.ListByProduct(ctx, product.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load product images",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		images = []domain.ProductImage{}
	}
	detail.Images = images

	variants, err := s.variants.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("load product variants: %w", err)
	}

	now := time.Now().UTC()
	variantIDs := make([]string, len(variants))
	for i, v := range variants {
		variantIDs[i] = v.ID
	}

	activeDiscounts, err := s.discounts.GetActiveByVariants(ctx, variantIDs, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load active discounts",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		activeDiscounts = map[string]domain.Discount{}
	}

	detail.Variants = make([]domain.VariantDetail, len(variants))
	for i, v := range variants {
		vd := domain.VariantDetail{
			Variant:        v,
			EffectivePrice: v.Price,
			Available:      v.Available(),
		}
		if d, ok := activeDiscounts[v.ID]; ok {
			vd.Discount = &d
			vd.EffectivePrice = domain.EffectivePrice(v.Price, &d, now)
		}
		detail.Variants[i] = vd
	}

	return detail, nil
}

// ListProducts returns a filtered, paginated list of products with primary images.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductListItem, int, error) {
	params := pagination.Params{Page: filter.Page, PerPage: filter.PerPage}.Clamp()
	filter.Page, filter.PerPage = params.Page, params.PerPage

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	// Batch-fetch primary images for all returned products.
	productIDs := make([]string, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}

	primaryImages, err := s.images.GetPrimaryByProducts(ctx, productIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load primary images for product list",
			slog.String("error", err.Error()),
		)
		primaryImages = map[string]domain.ProductImage{}
	}

	items := make([]domain.ProductListItem, len(products))
	for i, p := range products {
		items[i] = domain.ProductListItem{Product: p}
		if img, ok := primaryImages[p.ID]; ok {
			items[i].PrimaryImage = &img
		}
	}

	return items, total, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.BrandID != nil {
		if _, err := s.brands.GetByID(ctx, *input.BrandID); err != nil {
			return nil, fmt.Errorf("resolve brand: %w", err)
		}
		product.BrandID = *input.BrandID
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		product.CategoryID = *input.CategoryID
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
		brand, err := s.brands.GetByID(ctx, product.BrandID)
		if err != nil {
			return nil, fmt.Errorf("resolve brand for slug: %w", err)
		}
		product.Slug = slug.Generate(brand.Name + " " + *input.Name)
	}

	if input.Description != nil {
		product.Description = *input.Description
	}

	if input.Specs != nil {
		product.Specs = input.Specs
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// SetProductStatus transitions a product to the given status. Activation
// publishes the product; deactivation archives it.
func (s *ProductService) SetProductStatus(ctx context.Context, id, status string) (*domain.Product, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", status, strings.Join(domain.ValidStatuses(), ", ")))
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for status change: %w", err)
	}

	if product.Status == status {
		return product, nil
	}

	product.Status = status
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("set product status: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product status changed",
		slog.String("product_id", product.ID),
		slog.String("status", status),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID. Products that still have
// variants are not deleted.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}
