package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/internal/event"
	"github.com/utafrali/CatalogGo/internal/repository"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

// VariantService implements the business logic for variant and discount
// operations.
type VariantService struct {
	repo      repository.VariantRepository
	products  repository.ProductRepository
	discounts repository.DiscountRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewVariantService creates a new variant service.
func NewVariantService(
	repo repository.VariantRepository,
	products repository.ProductRepository,
	discounts repository.DiscountRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *VariantService {
	return &VariantService{
		repo:      repo,
		products:  products,
		discounts: discounts,
		producer:  producer,
		logger:    logger,
	}
}

// CreateVariantInput holds the parameters for creating a variant.
type CreateVariantInput struct {
	ProductID   string
	Condition   string
	Price       decimal.Decimal
	StockStatus string
	Quantity    int
	Description *string
	Discount    *AttachDiscountInput
}

// UpdateVariantInput holds the parameters for updating a variant.
type UpdateVariantInput struct {
	Condition   *string
	Price       *decimal.Decimal
	StockStatus *string
	Quantity    *int
	Description *string
}

// AttachDiscountInput holds the parameters for attaching a discount to a
// variant.
type AttachDiscountInput struct {
	Type     string
	Value    decimal.Decimal
	StartsAt time.Time
	EndsAt   time.Time
}

// CreateVariant creates a new variant for a product, optionally with an
// initial discount created in the same transaction.
func (s *VariantService) CreateVariant(ctx context.Context, input *CreateVariantInput) (*domain.Variant, error) {
	if err := validateVariantFields(input.Condition, input.Price, input.StockStatus, input.Quantity); err != nil {
		return nil, err
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	now := time.Now().UTC()
	variant := &domain.Variant{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		Condition:   input.Condition,
		Price:       input.Price,
		StockStatus: input.StockStatus,
		Quantity:    input.Quantity,
		Description: input.Description,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Discount == nil {
		if err := s.repo.Create(ctx, variant); err != nil {
			return nil, fmt.Errorf("create variant: %w", err)
		}
	} else {
		discount, err := buildDiscount(variant.ID, variant.Price, input.Discount, now)
		if err != nil {
			return nil, err
		}
		if err := s.repo.CreateWithDiscount(ctx, variant, discount); err != nil {
			return nil, fmt.Errorf("create variant with discount: %w", err)
		}
		if err := s.producer.PublishDiscountAttached(ctx, discount); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish discount.attached event",
				slog.String("discount_id", discount.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.producer.PublishVariantCreated(ctx, variant); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish variant.created event",
			slog.String("variant_id", variant.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "variant created",
		slog.String("variant_id", variant.ID),
		slog.String("product_id", variant.ProductID),
	)

	return variant, nil
}

// GetVariantDetail retrieves a variant with its active discount, effective
// price, and availability.
func (s *VariantService) GetVariantDetail(ctx context.Context, id string) (*domain.VariantDetail, error) {
	variant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get variant by id: %w", err)
	}

	now := time.Now().UTC()
	detail := &domain.VariantDetail{
		Variant:        *variant,
		EffectivePrice: variant.Price,
		Available:      variant.Available(),
	}

	discount, err := s.discounts.GetActiveByVariant(ctx, variant.ID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("get active discount: %w", err)
		}
		return detail, nil
	}

	detail.Discount = discount
	detail.EffectivePrice = domain.EffectivePrice(variant.Price, discount, now)

	return detail, nil
}

// ListVariantsByProduct returns all variants of a product with effective
// prices and availability.
func (s *VariantService) ListVariantsByProduct(ctx context.Context, productID string) ([]domain.VariantDetail, error) {
	variants, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	now := time.Now().UTC()
	variantIDs := make([]string, len(variants))
	for i, v := range variants {
		variantIDs[i] = v.ID
	}

	activeDiscounts, err := s.discounts.GetActiveByVariants(ctx, variantIDs, now)
	if err != nil {
		return nil, fmt.Errorf("get active discounts: %w", err)
	}

	details := make([]domain.VariantDetail, len(variants))
	for i, v := range variants {
		details[i] = domain.VariantDetail{
			Variant:        v,
			EffectivePrice: v.Price,
			Available:      v.Available(),
		}
		if d, ok := activeDiscounts[v.ID]; ok {
			details[i].Discount = &d
			details[i].EffectivePrice = domain.EffectivePrice(v.Price, &d, now)
		}
	}

	return details, nil
}

// UpdateVariant applies partial updates to an existing variant.
func (s *VariantService) UpdateVariant(ctx context.Context, id string, input *UpdateVariantInput) (*domain.Variant, error) {
	variant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get variant for update: %w", err)
	}

	if input.Condition != nil {
		variant.Condition = *input.Condition
	}
	if input.Price != nil {
		variant.Price = *input.Price
	}
	if input.StockStatus != nil {
		variant.StockStatus = *input.StockStatus
	}
	if input.Quantity != nil {
		variant.Quantity = *input.Quantity
	}
	if input.Description != nil {
		variant.Description = input.Description
	}

	if err := validateVariantFields(variant.Condition, variant.Price, variant.StockStatus, variant.Quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, variant); err != nil {
		return nil, fmt.Errorf("update variant: %w", err)
	}

	if err := s.producer.PublishVariantUpdated(ctx, variant); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish variant.updated event",
			slog.String("variant_id", variant.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "variant updated", slog.String("variant_id", variant.ID))

	return variant, nil
}

// SetVariantPublished toggles the published flag of a variant.
func (s *VariantService) SetVariantPublished(ctx context.Context, id string, published bool) (*domain.Variant, error) {
	variant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get variant for publish change: %w", err)
	}

	if variant.IsPublished == published {
		return variant, nil
	}

	variant.IsPublished = published
	if err := s.repo.Update(ctx, variant); err != nil {
		return nil, fmt.Errorf("set variant published: %w", err)
	}

	if err := s.producer.PublishVariantUpdated(ctx, variant); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish variant.updated event",
			slog.String("variant_id", variant.ID),
			slog.String("error", err.Error()),
		)
	}

	return variant, nil
}

// DeleteVariant removes a variant by its ID.
func (s *VariantService) DeleteVariant(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}

	if err := s.producer.PublishVariantDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish variant.deleted event",
			slog.String("variant_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "variant deleted", slog.String("variant_id", id))

	return nil
}

// AttachDiscount attaches a discount to a variant. A variant can hold at
// most one discount whose window overlaps any given instant.
func (s *VariantService) AttachDiscount(ctx context.Context, variantID string, input *AttachDiscountInput) (*domain.Discount, error) {
	variant, err := s.repo.GetByID(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("resolve variant: %w", err)
	}

	now := time.Now().UTC()
	discount, err := buildDiscount(variant.ID, variant.Price, input, now)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.discounts.FindOverlapping(ctx, variant.ID, discount.StartsAt, discount.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("check overlapping discounts: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, apperrors.Conflict(fmt.Sprintf("variant %s already has a discount overlapping the requested window", variant.ID))
	}

	if err := s.discounts.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("create discount: %w", err)
	}

	if err := s.producer.PublishDiscountAttached(ctx, discount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish discount.attached event",
			slog.String("discount_id", discount.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "discount attached",
		slog.String("discount_id", discount.ID),
		slog.String("variant_id", variant.ID),
	)

	return discount, nil
}

// GetActiveDiscount returns the discount active for a variant right now.
func (s *VariantService) GetActiveDiscount(ctx context.Context, variantID string) (*domain.Discount, error) {
	discount, err := s.discounts.GetActiveByVariant(ctx, variantID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("get active discount: %w", err)
	}
	return discount, nil
}

// ListDiscounts returns all discounts ever attached to a variant.
func (s *VariantService) ListDiscounts(ctx context.Context, variantID string) ([]domain.Discount, error) {
	discounts, err := s.discounts.ListByVariant(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	return discounts, nil
}

// RemoveDiscount detaches a discount from its variant.
func (s *VariantService) RemoveDiscount(ctx context.Context, discountID string) error {
	if err := s.discounts.Delete(ctx, discountID); err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}

	if err := s.producer.PublishDiscountRemoved(ctx, discountID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish discount.removed event",
			slog.String("discount_id", discountID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "discount removed", slog.String("discount_id", discountID))

	return nil
}

// buildDiscount validates the discount input against the variant price and
// returns a new discount ready to persist.
func buildDiscount(variantID string, price decimal.Decimal, input *AttachDiscountInput, now time.Time) (*domain.Discount, error) {
	if !domain.IsValidDiscountType(input.Type) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid discount type %q, must be one of: %s", input.Type, strings.Join(domain.ValidDiscountTypes(), ", ")))
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperrors.InvalidInput("discount ends_at must be after starts_at")
	}

	switch input.Type {
	case domain.DiscountPercentage:
		if input.Value.LessThanOrEqual(decimal.Zero) || input.Value.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperrors.InvalidInput("percentage discount value must be greater than 0 and at most 100")
		}
	case domain.DiscountFixedAmount:
		if input.Value.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.InvalidInput("fixed amount discount value must be greater than 0")
		}
		if input.Value.GreaterThan(price) {
			return nil, apperrors.InvalidInput("fixed amount discount must not exceed the variant price")
		}
	}

	return &domain.Discount{
		ID:        uuid.New().String(),
		VariantID: variantID,
		Type:      input.Type,
		Value:     input.Value,
		StartsAt:  input.StartsAt.UTC(),
		EndsAt:    input.EndsAt.UTC(),
		CreatedAt: now,
	}, nil
}

// validateVariantFields checks the enum and numeric constraints shared by
// create and update.
func validateVariantFields(condition string, price decimal.Decimal, stockStatus string, quantity int) error {
	if !domain.IsValidCondition(condition) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid condition %q, must be one of: %s", condition, strings.Join(domain.ValidConditions(), ", ")))
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return apperrors.InvalidInput("variant price must be greater than zero")
	}
	if !domain.IsValidStockStatus(stockStatus) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid stock status %q, must be one of: %s", stockStatus, strings.Join(domain.ValidStockStatuses(), ", ")))
	}
	if quantity < 0 {
		return apperrors.InvalidInput("variant quantity must not be negative")
	}
	return nil
}
