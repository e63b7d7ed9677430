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
	"github.com/utafrali/CatalogGo/pkg/pagination"
	"github.com/utafrali/CatalogGo/pkg/slug"
)

// BrandService implements the business logic for brand operations.
type BrandService struct {
	repo   repository.BrandRepository
	logger *slog.Logger
}

// NewBrandService creates a new brand service.
func NewBrandService(repo repository.BrandRepository, logger *slog.Logger) *BrandService {
	return &BrandService{
		repo:   repo,
		logger: logger,
	}
}

// CreateBrandInput holds the parameters for creating a brand.
type CreateBrandInput struct {
	Name    string
	LogoURL *string
}

// UpdateBrandInput holds the parameters for updating a brand.
type UpdateBrandInput struct {
	Name    *string
	LogoURL *string
}

// CreateBrand creates a new brand with the given input.
func (s *BrandService) CreateBrand(ctx context.Context, input *CreateBrandInput) (*domain.Brand, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("brand name is required")
	}

	now := time.Now().UTC()
	brand := &domain.Brand{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Slug:      slug.Generate(input.Name),
		LogoURL:   input.LogoURL,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand created",
		slog.String("brand_id", brand.ID),
		slog.String("slug", brand.Slug),
	)

	return brand, nil
}

// GetBrand retrieves a brand by its ID.
func (s *BrandService) GetBrand(ctx context.Context, id string) (*domain.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand by id: %w", err)
	}
	return brand, nil
}

// GetBrandBySlug retrieves a brand by its slug.
func (s *BrandService) GetBrandBySlug(ctx context.Context, slugStr string) (*domain.Brand, error) {
	brand, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, fmt.Errorf("get brand by slug: %w", err)
	}
	return brand, nil
}

// ListBrands returns a paginated list of brands.
func (s *BrandService) ListBrands(ctx context.Context, activeOnly bool, page, perPage int) ([]domain.Brand, int, error) {
	params := pagination.Params{Page: page, PerPage: perPage}.Clamp()

	brands, total, err := s.repo.List(ctx, activeOnly, params.Page, params.PerPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list brands: %w", err)
	}

	return brands, total, nil
}

// UpdateBrand applies partial updates to an existing brand.
func (s *BrandService) UpdateBrand(ctx context.Context, id string, input *UpdateBrandInput) (*domain.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("brand name must not be empty")
		}
		brand.Name = *input.Name
		brand.Slug = slug.Generate(*input.Name)
	}

	if input.LogoURL != nil {
		brand.LogoURL = input.LogoURL
	}

	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand updated", slog.String("brand_id", brand.ID))

	return brand, nil
}

// SetBrandActive activates or deactivates a brand.
func (s *BrandService) SetBrandActive(ctx context.Context, id string, active bool) (*domain.Brand, error) {
	brand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get brand for activation: %w", err)
	}

	if brand.IsActive == active {
		return brand, nil
	}

	brand.IsActive = active
	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("set brand active: %w", err)
	}

	s.logger.InfoContext(ctx, "brand activation changed",
		slog.String("brand_id", brand.ID),
		slog.Bool("is_active", active),
	)

	return brand, nil
}

// DeleteBrand removes a brand by its ID. Brands still referenced by
// products are not deleted.
func (s *BrandService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	s.logger.InfoContext(ctx, "brand deleted", slog.String("brand_id", id))

	return nil
}
