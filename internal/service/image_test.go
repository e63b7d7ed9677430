package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/CatalogGo/internal/domain"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

type imageServiceMocks struct {
	images   *mockImageRepository
	products *mockProductRepository
	variants *mockVariantRepository
}

func newTestImageService() (*ImageService, *imageServiceMocks) {
	m := &imageServiceMocks{
		images:   new(mockImageRepository),
		products: new(mockProductRepository),
		variants: new(mockVariantRepository),
	}
	svc := NewImageService(m.images, m.products, m.variants, newTestLogger())
	return svc, m
}

func TestAttachImage_ToProduct(t *testing.T) {
	svc, m := newTestImageService()
	ctx := context.Background()

	product := &domain.Product{ID: "prod-1", Name: "Legion Pro 7"}
	m.products.On("GetByID", ctx, "prod-1").Return(product, nil)
	m.images.On("Create", ctx, mock.AnythingOfType("*domain.ProductImage")).Return(nil)

	image, err := svc.AttachImage(ctx, &AttachImageInput{
		ProductID: strPtr("prod-1"),
		URL:       "https://cdn.example.com/products/legion-pro-7.jpg",
		AltText:   "Legion Pro 7 frontal",
		IsPrimary: true,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, image.ID)
	assert.Equal(t, "prod-1", *image.ProductID)
	assert.Nil(t, image.VariantID)
	assert.True(t, image.IsPrimary)

	m.images.AssertExpectations(t)
}

func TestAttachImage_BothTargetsSet(t *testing.T) {
	svc, m := newTestImageService()

	image, err := svc.AttachImage(context.Background(), &AttachImageInput{
		ProductID: strPtr("prod-1"),
		VariantID: strPtr("var-1"),
		URL:       "https://cdn.example.com/img.jpg",
	})

	assert.Nil(t, image)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	m.images.AssertNotCalled(t, "Create")
}

func TestAttachImage_NoTargetSet(t *testing.T) {
	svc, m := newTestImageService()

	image, err := svc.AttachImage(context.Background(), &AttachImageInput{
		URL: "https://cdn.example.com/img.jpg",
	})

	assert.Nil(t, image)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	m.images.AssertNotCalled(t, "Create")
}

func TestAttachImage_MissingURL(t *testing.T) {
	svc, _ := newTestImageService()

	image, err := svc.AttachImage(context.Background(), &AttachImageInput{
		ProductID: strPtr("prod-1"),
	})

	assert.Nil(t, image)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAttachImage_VariantNotFound(t *testing.T) {
	svc, m := newTestImageService()
	ctx := context.Background()

	m.variants.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("variant", "missing"))

	image, err := svc.AttachImage(ctx, &AttachImageInput{
		VariantID: strPtr("missing"),
		URL:       "https://cdn.example.com/img.jpg",
	})

	assert.Nil(t, image)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	m.images.AssertNotCalled(t, "Create")
}

func TestUpdateImage_PromoteToPrimary(t *testing.T) {
	svc, m := newTestImageService()
	ctx := context.Background()

	existing := &domain.ProductImage{
		ID:        "img-2",
		ProductID: strPtr("prod-1"),
		URL:       "https://cdn.example.com/products/legion-pro-7-back.jpg",
		SortOrder: 1,
	}
	m.images.On("GetByID", ctx, "img-2").Return(existing, nil)
	m.images.On("Update", ctx, mock.AnythingOfType("*domain.ProductImage")).Return(nil)

	primary := true
	image, err := svc.UpdateImage(ctx, "img-2", &UpdateImageInput{
		IsPrimary: &primary,
		SortOrder: intPtr(0),
	})

	require.NoError(t, err)
	assert.True(t, image.IsPrimary)
	assert.Equal(t, 0, image.SortOrder)
	m.images.AssertExpectations(t)
}

func TestDeleteImage_NotFound(t *testing.T) {
	svc, m := newTestImageService()
	ctx := context.Background()

	m.images.On("Delete", ctx, "missing").Return(apperrors.NotFound("image", "missing"))

	err := svc.DeleteImage(ctx, "missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
