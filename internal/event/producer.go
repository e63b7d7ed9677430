package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/CatalogGo/internal/domain"
	pkgkafka "github.com/utafrali/CatalogGo/pkg/kafka"
	"github.com/utafrali/CatalogGo/pkg/logger"
)

// Kafka topics for catalog domain events.
var (
	TopicProductCreated   = pkgkafka.Topic("product", "created")
	TopicProductUpdated   = pkgkafka.Topic("product", "updated")
	TopicProductDeleted   = pkgkafka.Topic("product", "deleted")
	TopicVariantCreated   = pkgkafka.Topic("variant", "created")
	TopicVariantUpdated   = pkgkafka.Topic("variant", "updated")
	TopicVariantDeleted   = pkgkafka.Topic("variant", "deleted")
	TopicDiscountAttached = pkgkafka.Topic("discount", "attached")
	TopicDiscountRemoved  = pkgkafka.Topic("discount", "removed")
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeVariant  = "variant"
	AggregateTypeDiscount = "discount"
)

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	BrandID    string         `json:"brand_id"`
	CategoryID string         `json:"category_id"`
	Status     string         `json:"status"`
	Specs      map[string]any `json:"specs,omitempty"`
}

// VariantData is the payload for variant.created and variant.updated events.
type VariantData struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	StockStatus string          `json:"stock_status"`
	Quantity    int             `json:"quantity"`
	IsPublished bool            `json:"is_published"`
}

// DiscountData is the payload for discount.attached events.
type DiscountData struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	StartsAt  string          `json:"starts_at"`
	EndsAt    string          `json:"ends_at"`
}

// DeletedData is the payload for *.deleted and discount.removed events.
type DeletedData struct {
	ID string `json:"id"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	// Carry the request correlation ID across the broker so consumers can
	// stitch their logs to the originating HTTP request.
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		event.WithCorrelationID(correlationID)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:         product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		BrandID:    product.BrandID,
		CategoryID: product.CategoryID,
		Status:     product.Status,
		Specs:      product.Specs,
	}
}

func variantData(v *domain.Variant) VariantData {
	return VariantData{
		ID:          v.ID,
		ProductID:   v.ProductID,
		Condition:   v.Condition,
		Price:       v.Price,
		StockStatus: v.StockStatus,
		Quantity:    v.Quantity,
		IsPublished: v.IsPublished,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicProductDeleted, id, AggregateTypeProduct, DeletedData{ID: id})
}

// PublishVariantCreated publishes a variant.created event.
func (p *Producer) PublishVariantCreated(ctx context.Context, v *domain.Variant) error {
	return p.publish(ctx, TopicVariantCreated, v.ID, AggregateTypeVariant, variantData(v))
}

// PublishVariantUpdated publishes a variant.updated event.
func (p *Producer) PublishVariantUpdated(ctx context.Context, v *domain.Variant) error {
	return p.publish(ctx, TopicVariantUpdated, v.ID, AggregateTypeVariant, variantData(v))
}

// PublishVariantDeleted publishes a variant.deleted event.
func (p *Producer) PublishVariantDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicVariantDeleted, id, AggregateTypeVariant, DeletedData{ID: id})
}

// PublishDiscountAttached publishes a discount.attached event.
func (p *Producer) PublishDiscountAttached(ctx context.Context, d *domain.Discount) error {
	data := DiscountData{
		ID:        d.ID,
		VariantID: d.VariantID,
		Type:      d.Type,
		Value:     d.Value,
		StartsAt:  d.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:    d.EndsAt.UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, TopicDiscountAttached, d.ID, AggregateTypeDiscount, data)
}

// PublishDiscountRemoved publishes a discount.removed event.
func (p *Producer) PublishDiscountRemoved(ctx context.Context, id string) error {
	return p.publish(ctx, TopicDiscountRemoved, id, AggregateTypeDiscount, DeletedData{ID: id})
}
