package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/CatalogGo/internal/domain"
	"github.com/utafrali/CatalogGo/internal/service"
	apperrors "github.com/utafrali/CatalogGo/pkg/errors"
)

func brandRouter(repo *mockBrandRepo) *chi.Mux {
	svc := service.NewBrandService(repo, handlerTestLogger())
	handler := NewBrandHandler(svc, handlerTestLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/brands", func(r chi.Router) {
		r.Get("/", handler.ListBrands)
		r.Get("/{idOrSlug}", handler.GetBrand)
		r.Post("/", handler.CreateBrand)
		r.Put("/{id}", handler.UpdateBrand)
		r.Post("/{id}/activate", handler.ActivateBrand)
		r.Post("/{id}/deactivate", handler.DeactivateBrand)
		r.Delete("/{id}", handler.DeleteBrand)
	})
	return r
}

func TestCreateBrandEndpoint_Success(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Brand")).Return(nil)

	b, _ := json.Marshal(CreateBrandRequest{Name: "ASUS ROG"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "asus-rog", data["slug"])
	repo.AssertExpectations(t)
}

func TestCreateBrandEndpoint_ValidationError(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	b, _ := json.Marshal(CreateBrandRequest{Name: ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateBrandEndpoint_Duplicate(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Brand")).
		Return(apperrors.AlreadyExists("brand", "name", "Lenovo"))

	b, _ := json.Marshal(CreateBrandRequest{Name: "Lenovo"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
}

func TestGetBrandEndpoint_ByID(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	id := "550e8400-e29b-41d4-a716-446655440001"
	brand := &domain.Brand{ID: id, Name: "MSI", Slug: "msi", IsActive: true}
	repo.On("GetByID", mock.Anything, id).Return(brand, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "GetBySlug")
}

func TestGetBrandEndpoint_BySlug(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	brand := &domain.Brand{ID: "550e8400-e29b-41d4-a716-446655440001", Name: "MSI", Slug: "msi", IsActive: true}
	repo.On("GetBySlug", mock.Anything, "msi").Return(brand, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands/msi", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertNotCalled(t, "GetByID")
}

func TestGetBrandEndpoint_NotFound(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	repo.On("GetBySlug", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("brand", "missing"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBrandEndpoint_Conflict(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	id := "550e8400-e29b-41d4-a716-446655440001"
	repo.On("Delete", mock.Anything, id).
		Return(apperrors.Conflict("brand still has products"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/brands/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeactivateBrandEndpoint(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	id := "550e8400-e29b-41d4-a716-446655440001"
	brand := &domain.Brand{ID: id, Name: "MSI", Slug: "msi", IsActive: true}
	repo.On("GetByID", mock.Anything, id).Return(brand, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Brand")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands/"+id+"/deactivate", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["is_active"])
	repo.AssertExpectations(t)
}

func TestListBrandsEndpoint_InvalidPage(t *testing.T) {
	repo := new(mockBrandRepo)
	router := brandRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands?page=abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}
