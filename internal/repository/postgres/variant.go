package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/pkg/database"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

// VariantRepository implements repository.VariantRepository using PostgreSQL.
type VariantRepository struct {
	db database.DBTX
}

// NewVariantRepository creates a new PostgreSQL-backed variant repository.
func NewVariantRepository(db database.DBTX) *VariantRepository {
	return &VariantRepository{db: db}
}

const insertVariantQuery = `
		INSERT INTO product_variants (id, product_id, condition, price, stock_status, quantity, description, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create inserts a new variant into the database.
func (r *VariantRepository) Create(ctx context.Context, v *domain.Variant) error {
	_, err := r.db.Exec(ctx, insertVariantQuery,
		v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus, v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", v.ProductID)
		}
		return fmt.Errorf("insert variant: %w", err)
	}

	return nil
}

// CreateWithDiscount inserts a variant and its initial discount in one
// transaction so a failed discount insert never leaves a bare variant.
func (r *VariantRepository) CreateWithDiscount(ctx context.Context, v *domain.Variant, d *domain.Discount) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create variant tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertVariantQuery,
		v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus, v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", v.ProductID)
		}
		return fmt.Errorf("insert variant: %w", err)
	}

	_, err = tx.Exec(ctx, insertDiscountQuery,
		d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert initial discount: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create variant tx: %w", err)
	}

	return nil
}

// GetByID retrieves a variant by its ID.
func (r *VariantRepository) GetByID(ctx context.Context, id string) (*domain.Variant, error) {
	query := `
		SELECT id, product_id, condition, price, stock_status, quantity, description, is_published, created_at, updated_at
		FROM product_variants
		WHERE id = $1`

	var v domain.Variant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ProductID, &v.Condition, &v.Price, &v.StockStatus, &v.Quantity, &v.Description, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan variant: %w", err)
	}

	return &v, nil
}

// ListByProduct returns all variants of a product ordered by creation time.
func (r *VariantRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	query := `
		SELECT id, product_id, condition, price, stock_status, quantity, description, is_published, created_at, updated_at
		FROM product_variants
		WHERE product_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(
			&v.ID, &v.ProductID, &v.Condition, &v.Price, &v.StockStatus, &v.Quantity, &v.Description, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan variant row: %w", err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant rows: %w", err)
	}

	if variants == nil {
		variants = []domain.Variant{}
	}

	return variants, nil
}

// Update modifies an existing variant in the database.
func (r *VariantRepository) Update(ctx context.Context, v *domain.Variant) error {
	v.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE product_variants
		SET condition = $1, price = $2, stock_status = $3, quantity = $4, description = $5, is_published = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.db.Exec(ctx, query,
		v.Condition, v.Price, v.StockStatus, v.Quantity, v.Description, v.IsPublished, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("variant", v.ID)
	}

	return nil
}

// Delete removes a variant from the database by its ID. Discounts and
// variant images cascade at the schema level.
func (r *VariantRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete variant: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("variant", id)
	}

	return nil
}
