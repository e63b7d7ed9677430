package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/pkg/database"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

// ImageRepository implements repository.ImageRepository using PostgreSQL.
type ImageRepository struct {
	db database.DBTX
}

// NewImageRepository creates a new PostgreSQL-backed image repository.
func NewImageRepository(db database.DBTX) *ImageRepository {
	return &ImageRepository{db: db}
}

const selectImageColumns = `id, product_id, variant_id, url, alt_text, sort_order, is_primary, created_at`

// Create inserts an image. A new primary image demotes the previous primary
// for the same target inside one transaction.
func (r *ImageRepository) Create(ctx context.Context, img *domain.ProductImage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create image tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if img.IsPrimary {
		if err := clearPrimary(ctx, tx, img); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO product_images (id, product_id, variant_id, url, alt_text, sort_order, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		img.ID, img.ProductID, img.VariantID, img.URL, img.AltText, img.SortOrder, img.IsPrimary, img.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("insert image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create image tx: %w", err)
	}

	return nil
}

// GetByID retrieves an image by its ID.
func (r *ImageRepository) GetByID(ctx context.Context, id string) (*domain.ProductImage, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_images WHERE id = $1`, selectImageColumns)

	var img domain.ProductImage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.ProductID, &img.VariantID, &img.URL, &img.AltText, &img.SortOrder, &img.IsPrimary, &img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan image: %w", err)
	}

	return &img, nil
}

// ListByProduct returns all images attached to a product ordered for display.
func (r *ImageRepository) ListByProduct(ctx context.Context, productID string) ([]domain.ProductImage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_primary DESC, sort_order ASC, created_at ASC`, selectImageColumns)

	return r.queryImages(ctx, query, productID)
}

// ListByVariant returns all images attached to a variant ordered for display.
func (r *ImageRepository) ListByVariant(ctx context.Context, variantID string) ([]domain.ProductImage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM product_images
		WHERE variant_id = $1
		ORDER BY is_primary DESC, sort_order ASC, created_at ASC`, selectImageColumns)

	return r.queryImages(ctx, query, variantID)
}

// GetPrimaryByProducts batch-loads primary images for multiple products.
func (r *ImageRepository) GetPrimaryByProducts(ctx context.Context, productIDs []string) (map[string]domain.ProductImage, error) {
	result := make(map[string]domain.ProductImage)
	if len(productIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM product_images
		WHERE product_id = ANY($1) AND is_primary = TRUE`, selectImageColumns)

	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("batch primary images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.VariantID, &img.URL, &img.AltText, &img.SortOrder, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		if img.ProductID != nil {
			result[*img.ProductID] = img
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}

	return result, nil
}

// Update modifies an image's mutable fields. Promoting an image to primary
// demotes the previous primary for the same target.
func (r *ImageRepository) Update(ctx context.Context, img *domain.ProductImage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update image tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if img.IsPrimary {
		if err := clearPrimary(ctx, tx, img); err != nil {
			return err
		}
	}

	ct, err := tx.Exec(ctx, `
		UPDATE product_images
		SET url = $1, alt_text = $2, sort_order = $3, is_primary = $4
		WHERE id = $5`,
		img.URL, img.AltText, img.SortOrder, img.IsPrimary, img.ID,
	)
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("image", img.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update image tx: %w", err)
	}

	return nil
}

// Delete removes an image from the database by its ID.
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("image", id)
	}

	return nil
}

// clearPrimary demotes the current primary image for the image's target.
func clearPrimary(ctx context.Context, tx pgx.Tx, img *domain.ProductImage) error {
	var err error
	switch {
	case img.ProductID != nil:
		_, err = tx.Exec(ctx, `UPDATE product_images SET is_primary = FALSE WHERE product_id = $1 AND is_primary = TRUE AND id <> $2`, *img.ProductID, img.ID)
	case img.VariantID != nil:
		_, err = tx.Exec(ctx, `UPDATE product_images SET is_primary = FALSE WHERE variant_id = $1 AND is_primary = TRUE AND id <> $2`, *img.VariantID, img.ID)
	}
	if err != nil {
		return fmt.Errorf("clear primary image: %w", err)
	}
	return nil
}

func (r *ImageRepository) queryImages(ctx context.Context, query string, args ...any) ([]domain.ProductImage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()

	var images []domain.ProductImage
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.VariantID, &img.URL, &img.AltText, &img.SortOrder, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image rows: %w", err)
	}

	if images == nil {
		images = []domain.ProductImage{}
	}

	return images, nil
}
