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
	"github.com/utafrali/CatalogGo/pkg/slug"
)

// maxCategoryDepth bounds the ancestor walk so a corrupted hierarchy can
// never loop forever.
const maxCategoryDepth = 32

// CategoryService implements the business logic for category operations.
type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		logger: logger,
	}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	ParentID    *string
	SortOrder   int
}

// UpdateCategoryInput holds the parameters for updating a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	ParentID    *string
	SortOrder   *int
}

// CreateCategory creates a new category with the given input.
func (s *CategoryService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	if input.ParentID != nil {
		// Parent must exist before the insert so the caller gets a clean
		// not-found instead of an FK error.
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, fmt.Errorf("get parent category: %w", err)
		}
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		ParentID:    input.ParentID,
		SortOrder:   input.SortOrder,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// GetCategory retrieves a category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// GetCategoryBySlug retrieves a category by its slug.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slugStr string) (*domain.Category, error) {
	category, err := s.repo.GetBySlug(ctx, slugStr)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories as a flat list.
func (s *CategoryService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	categories, err := s.repo.ListAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListCategoryTree returns all categories assembled into a nested tree.
func (s *CategoryService) ListCategoryTree(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	flat, err := s.repo.ListAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	byID := make(map[string]*domain.Category, len(flat))
	for i := range flat {
		byID[flat[i].ID] = &flat[i]
	}

	var roots []*domain.Category
	for i := range flat {
		c := &flat[i]
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			// Parent filtered out (inactive); surface the child at the root.
			roots = append(roots, c)
			continue
		}
		parent.Children = append(parent.Children, c)
	}

	if roots == nil {
		roots = []*domain.Category{}
	}

	return roots, nil
}

// UpdateCategory applies partial updates to an existing category.
// Re-parenting is rejected when it would introduce a cycle.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input *UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("category name must not be empty")
		}
		category.Name = *input.Name
		category.Slug = slug.Generate(*input.Name)
	}

	if input.Description != nil {
		category.Description = input.Description
	}

	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, apperrors.InvalidInput("category cannot be its own parent")
		}
		if _, err := s.repo.GetByID(ctx, *input.ParentID); err != nil {
			return nil, fmt.Errorf("get parent category: %w", err)
		}
		if err := s.checkCycle(ctx, id, *input.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = input.ParentID
	}

	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.logger.InfoContext(ctx, "category updated", slog.String("category_id", category.ID))

	return category, nil
}

// SetCategoryActive activates or deactivates a category.
func (s *CategoryService) SetCategoryActive(ctx context.Context, id string, active bool) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for activation: %w", err)
	}

	if category.IsActive == active {
		return category, nil
	}

	category.IsActive = active
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("set category active: %w", err)
	}

	s.logger.InfoContext(ctx, "category activation changed",
		slog.String("category_id", category.ID),
		slog.Bool("is_active", active),
	)

	return category, nil
}

// DeleteCategory removes a category by its ID. Children are re-parented to
// the deleted node's parent; categories with products are not deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))

	return nil
}

// checkCycle walks up from the proposed parent; reaching the category being
// re-parented means the move would close a loop.
func (s *CategoryService) checkCycle(ctx context.Context, categoryID, newParentID string) error {
	current := newParentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == categoryID {
			return apperrors.InvalidInput("moving category under its own descendant would create a cycle")
		}
		parent, err := s.repo.GetByID(ctx, current)
		if err != nil {
			return fmt.Errorf("walk category ancestors: %w", err)
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return apperrors.InvalidInput("category hierarchy too deep")
}
