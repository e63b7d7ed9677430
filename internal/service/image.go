package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/internal/repository"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

// ImageService implements the business logic for product and variant images.
type ImageService struct {
	repo     repository.ImageRepository
	products repository.ProductRepository
	variants repository.VariantRepository
	logger   *slog.Logger
}

// NewImageService creates a new image service.
func NewImageService(
	repo repository.ImageRepository,
	products repository.ProductRepository,
	variants repository.VariantRepository,
	logger *slog.Logger,
) *ImageService {
	return &ImageService{
		repo:     repo,
		products: products,
		variants: variants,
		logger:   logger,
	}
}

// AttachImageInput holds the parameters for attaching an image. Exactly one
// of ProductID or VariantID must be set.
type AttachImageInput struct {
	ProductID *string
	VariantID *string
	URL       string
	AltText   string
	SortOrder int
	IsPrimary bool
}

// UpdateImageInput holds the parameters for updating an image.
type UpdateImageInput struct {
	AltText   *string
	SortOrder *int
	IsPrimary *bool
}

// AttachImage attaches an image to a product or a variant. Marking the
// image primary demotes the previous primary for the same target.
func (s *ImageService) AttachImage(ctx context.Context, input *AttachImageInput) (*domain.ProductImage, error) {
	if input.URL == "" {
		return nil, apperrors.InvalidInput("image url is required")
	}
	if (input.ProductID == nil) == (input.VariantID == nil) {
		return nil, apperrors.InvalidInput("exactly one of product_id or variant_id must be set")
	}

	if input.ProductID != nil {
		if _, err := s.products.GetByID(ctx, *input.ProductID); err != nil {
			return nil, fmt.Errorf("resolve product: %w", err)
		}
	} else {
		if _, err := s.variants.GetByID(ctx, *input.VariantID); err != nil {
			return nil, fmt.Errorf("resolve variant: %w", err)
		}
	}

	image := &domain.ProductImage{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		URL:       input.URL,
		AltText:   input.AltText,
		SortOrder: input.SortOrder,
		IsPrimary: input.IsPrimary,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}

	s.logger.InfoContext(ctx, "image attached", slog.String("image_id", image.ID))

	return image, nil
}

// GetImage retrieves an image by its ID.
func (s *ImageService) GetImage(ctx context.Context, id string) (*domain.ProductImage, error) {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get image by id: %w", err)
	}
	return image, nil
}

// ListProductImages returns the images attached directly to a product.
func (s *ImageService) ListProductImages(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	images, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	return images, nil
}

// ListVariantImages returns the images attached to a variant.
func (s *ImageService) ListVariantImages(ctx context.Context, variantID string) ([]domain.ProductImage, error) {
	images, err := s.repo.ListByVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("list variant images: %w", err)
	}
	return images, nil
}

// UpdateImage applies partial updates to an existing image.
func (s *ImageService) UpdateImage(ctx context.Context, id string, input *UpdateImageInput) (*domain.ProductImage, error) {
	image, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get image for update: %w", err)
	}

	if input.AltText != nil {
		image.AltText = *input.AltText
	}
	if input.SortOrder != nil {
		image.SortOrder = *input.SortOrder
	}
	if input.IsPrimary != nil {
		image.IsPrimary = *input.IsPrimary
	}

	if err := s.repo.Update(ctx, image); err != nil {
		return nil, fmt.Errorf("update image: %w", err)
	}

	return image, nil
}

// DeleteImage removes an image by its ID.
func (s *ImageService) DeleteImage(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	s.logger.InfoContext(ctx, "image deleted", slog.String("image_id", id))

	return nil
}
