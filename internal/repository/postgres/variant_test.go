package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/pkg/database"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

func setupVariantRepo(t *testing.T) (*VariantRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewVariantRepository(mock)
	return repo, mock
}

func sampleVariant() *domain.Variant {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Variant{
		ID:          "var-001",
		ProductID:   "prod-001",
		Condition:   domain.ConditionNew,
		Price:       decimal.RequireFromString("1499.99"),
		StockStatus: domain.StockInStock,
		Quantity:    4,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sampleLaunchDiscount() *domain.Discount {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Discount{
		ID:        "disc-001",
		VariantID: "var-001",
		Type:      domain.DiscountPercentage,
		Value:     decimal.RequireFromString("10"),
		StartsAt:  now,
		EndsAt:    now.Add(72 * time.Hour),
		CreatedAt: now,
	}
}

func variantColumns() []string {
	return []string{
		"id", "product_id", "condition", "price", "stock_status",
		"quantity", "description", "is_published", "created_at", "updated_at",
	}
}

func variantRow(v *domain.Variant) *pgxmock.Rows {
	return pgxmock.NewRows(variantColumns()).
		AddRow(v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus,
			v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt)
}

func TestVariantRepository_Create_Success(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	v := sampleVariant()

	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs(v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus,
			v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), v)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_Create_DanglingProduct(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	v := sampleVariant()

	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs(v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus,
			v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt).
		WillReturnError(errors.New("ERROR: insert or update on table \"product_variants\" violates foreign key constraint (SQLSTATE 23503)"))

	err := repo.Create(context.Background(), v)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_CreateWithDiscount_CommitsBoth(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	v := sampleVariant()
	d := sampleLaunchDiscount()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs(v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus,
			v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO discounts").
		WithArgs(d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.CreateWithDiscount(context.Background(), v, d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_CreateWithDiscount_RollsBackOnDiscountFailure(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	v := sampleVariant()
	d := sampleLaunchDiscount()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs(v.ID, v.ProductID, v.Condition, v.Price, v.StockStatus,
			v.Quantity, v.Description, v.IsPublished, v.CreatedAt, v.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO discounts").
		WithArgs(d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.CreateWithDiscount(context.Background(), v, d)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert initial discount")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	v := sampleVariant()

	mock.ExpectQuery("SELECT .+ FROM product_variants").
		WithArgs(v.ID).
		WillReturnRows(variantRow(v))

	result, err := repo.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ProductID, result.ProductID)
	assert.True(t, v.Price.Equal(result.Price))
	assert.Equal(t, v.StockStatus, result.StockStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM product_variants").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(variantColumns()))

	result, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_ListByProduct_Empty(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM product_variants").
		WithArgs("prod-001").
		WillReturnRows(pgxmock.NewRows(variantColumns()))

	variants, err := repo.ListByProduct(context.Background(), "prod-001")
	require.NoError(t, err)
	assert.Empty(t, variants)
	assert.NotNil(t, variants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupVariantRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM product_variants").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
