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

// DiscountRepository implements repository.DiscountRepository using PostgreSQL.
type DiscountRepository struct {
	db database.DBTX
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(db database.DBTX) *DiscountRepository {
	return &DiscountRepository{db: db}
}

const insertDiscountQuery = `
		INSERT INTO discounts (id, variant_id, type, value, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectDiscountColumns = `id, variant_id, type, value, starts_at, ends_at, created_at`

// Create inserts a new discount into the database.
func (r *DiscountRepository) Create(ctx context.Context, d *domain.Discount) error {
	_, err := r.db.Exec(ctx, insertDiscountQuery,
		d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("variant", d.VariantID)
		}
		return fmt.Errorf("insert discount: %w", err)
	}

	return nil
}

// GetByID retrieves a discount by its ID.
func (r *DiscountRepository) GetByID(ctx context.Context, id string) (*domain.Discount, error) {
	query := fmt.Sprintf(`SELECT %s FROM discounts WHERE id = $1`, selectDiscountColumns)
	return r.scanDiscount(ctx, query, id)
}

// GetActiveByVariant returns the discount whose window covers now.
func (r *DiscountRepository) GetActiveByVariant(ctx context.Context, variantID string, now time.Time) (*domain.Discount, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM discounts
		WHERE variant_id = $1 AND starts_at <= $2 AND ends_at > $2
		ORDER BY starts_at DESC
		LIMIT 1`, selectDiscountColumns)

	return r.scanDiscount(ctx, query, variantID, now)
}

// GetActiveByVariants batch-loads active discounts for multiple variants.
func (r *DiscountRepository) GetActiveByVariants(ctx context.Context, variantIDs []string, now time.Time) (map[string]domain.Discount, error) {
	result := make(map[string]domain.Discount)
	if len(variantIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM discounts
		WHERE variant_id = ANY($1) AND starts_at <= $2 AND ends_at > $2`, selectDiscountColumns)

	rows, err := r.db.Query(ctx, query, variantIDs, now)
	if err != nil {
		return nil, fmt.Errorf("batch active discounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Discount
		if err := rows.Scan(&d.ID, &d.VariantID, &d.Type, &d.Value, &d.StartsAt, &d.EndsAt, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}
		result[d.VariantID] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount rows: %w", err)
	}

	return result, nil
}

// ListByVariant returns all discounts attached to a variant, newest window first.
func (r *DiscountRepository) ListByVariant(ctx context.Context, variantID string) ([]domain.Discount, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM discounts
		WHERE variant_id = $1
		ORDER BY starts_at DESC`, selectDiscountColumns)

	return r.queryDiscounts(ctx, query, variantID)
}

// FindOverlapping returns discounts on the variant whose window intersects
// the half-open interval [startsAt, endsAt).
func (r *DiscountRepository) FindOverlapping(ctx context.Context, variantID string, startsAt, endsAt time.Time) ([]domain.Discount, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM discounts
		WHERE variant_id = $1 AND starts_at < $3 AND ends_at > $2`, selectDiscountColumns)

	return r.queryDiscounts(ctx, query, variantID, startsAt, endsAt)
}

// Delete removes a discount from the database by its ID.
func (r *DiscountRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete discount: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("discount", id)
	}

	return nil
}

func (r *DiscountRepository) scanDiscount(ctx context.Context, query string, args ...any) (*domain.Discount, error) {
	var d domain.Discount

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&d.ID, &d.VariantID, &d.Type, &d.Value, &d.StartsAt, &d.EndsAt, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan discount: %w", err)
	}

	return &d, nil
}

func (r *DiscountRepository) queryDiscounts(ctx context.Context, query string, args ...any) ([]domain.Discount, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query discounts: %w", err)
	}
	defer rows.Close()

	var discounts []domain.Discount
	for rows.Next() {
		var d domain.Discount
		if err := rows.Scan(&d.ID, &d.VariantID, &d.Type, &d.Value, &d.StartsAt, &d.EndsAt, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}
		discounts = append(discounts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount rows: %w", err)
	}

	if discounts == nil {
		discounts = []domain.Discount{}
	}

	return discounts, nil
}
