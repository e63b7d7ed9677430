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

func setupDiscountRepo(t *testing.T) (*DiscountRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewDiscountRepository(mock)
	return repo, mock
}

func discountColumns() []string {
	return []string{"id", "variant_id", "type", "value", "starts_at", "ends_at", "created_at"}
}

func discountRow(d *domain.Discount) *pgxmock.Rows {
	return pgxmock.NewRows(discountColumns()).
		AddRow(d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt)
}

func sampleDiscount() *domain.Discount {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return &domain.Discount{
		ID:        "disc-001",
		VariantID: "var-001",
		Type:      domain.DiscountFixedAmount,
		Value:     decimal.RequireFromString("200.00"),
		StartsAt:  now,
		EndsAt:    now.Add(7 * 24 * time.Hour),
		CreatedAt: now,
	}
}

func TestDiscountRepository_Create_Success(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	d := sampleDiscount()

	mock.ExpectExec("INSERT INTO discounts").
		WithArgs(d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_Create_DanglingVariant(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	d := sampleDiscount()
	d.VariantID = "var-missing"

	mock.ExpectExec("INSERT INTO discounts").
		WithArgs(d.ID, d.VariantID, d.Type, d.Value, d.StartsAt, d.EndsAt, d.CreatedAt).
		WillReturnError(errors.New(`insert or update on table "discounts" violates foreign key constraint "discounts_variant_id_fkey" (SQLSTATE 23503)`))

	err := repo.Create(context.Background(), d)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_GetActiveByVariant_Found(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	d := sampleDiscount()
	now := d.StartsAt.Add(time.Hour)

	mock.ExpectQuery("SELECT .+ FROM discounts").
		WithArgs(d.VariantID, now).
		WillReturnRows(discountRow(d))

	result, err := repo.GetActiveByVariant(context.Background(), d.VariantID, now)
	require.NoError(t, err)
	assert.Equal(t, d.ID, result.ID)
	assert.True(t, d.Value.Equal(result.Value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_GetActiveByVariant_NoneActive(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM discounts").
		WithArgs("var-001", now).
		WillReturnRows(pgxmock.NewRows(discountColumns()))

	result, err := repo.GetActiveByVariant(context.Background(), "var-001", now)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_GetActiveByVariants_KeyedByVariant(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	d := sampleDiscount()
	now := d.StartsAt.Add(time.Hour)
	ids := []string{"var-001", "var-002"}

	mock.ExpectQuery("SELECT .+ FROM discounts").
		WithArgs(ids, now).
		WillReturnRows(discountRow(d))

	result, err := repo.GetActiveByVariants(context.Background(), ids, now)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, d.ID, result["var-001"].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_GetActiveByVariants_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	result, err := repo.GetActiveByVariants(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_FindOverlapping_ReturnsIntersecting(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	d := sampleDiscount()
	startsAt := d.StartsAt.Add(24 * time.Hour)
	endsAt := d.EndsAt.Add(24 * time.Hour)

	mock.ExpectQuery("SELECT .+ FROM discounts").
		WithArgs(d.VariantID, startsAt, endsAt).
		WillReturnRows(discountRow(d))

	result, err := repo.FindOverlapping(context.Background(), d.VariantID, startsAt, endsAt)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, d.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_FindOverlapping_NoneReturnsEmptySlice(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	startsAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	endsAt := startsAt.Add(48 * time.Hour)

	mock.ExpectQuery("SELECT .+ FROM discounts").
		WithArgs("var-001", startsAt, endsAt).
		WillReturnRows(pgxmock.NewRows(discountColumns()))

	result, err := repo.FindOverlapping(context.Background(), "var-001", startsAt, endsAt)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NotNil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiscountRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupDiscountRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM discounts").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
