package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/CatalogGo/internal/service"
	"github.com/utafrali/CatalogGo/pkg/httputil"
	"github.com/utafrali/CatalogGo/pkg/validator"
)

// VariantHandler handles HTTP requests for variant and discount endpoints.
type VariantHandler struct {
	service *service.VariantService
	logger  *slog.Logger
}

// NewVariantHandler creates a new variant HTTP handler.
func NewVariantHandler(svc *service.VariantService, logger *slog.Logger) *VariantHandler {
	return &VariantHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateVariantRequest is the JSON request body for creating a variant.
// Price is a decimal string, e.g. "1499.99".
type CreateVariantRequest struct {
	Condition   string                 `json:"condition" validate:"required,oneof=new open_box refurbished used"`
	Price       string                 `json:"price" validate:"required"`
	StockStatus string                 `json:"stock_status" validate:"required,oneof=in_stock on_the_way by_importation out_of_stock"`
	Quantity    int                    `json:"quantity" validate:"gte=0"`
	Description *string                `json:"description"`
	Discount    *AttachDiscountRequest `json:"discount"`
}

// UpdateVariantRequest is the JSON request body for updating a variant.
type UpdateVariantRequest struct {
	Condition   *string `json:"condition" validate:"omitempty,oneof=new open_box refurbished used"`
	Price       *string `json:"price"`
	StockStatus *string `json:"stock_status" validate:"omitempty,oneof=in_stock on_the_way by_importation out_of_stock"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
	Description *string `json:"description"`
}

// AttachDiscountRequest is the JSON request body for attaching a discount.
// Value is a decimal string: a percentage for type percentage, an absolute
// amount for type fixed_amount.
type AttachDiscountRequest struct {
	Type     string    `json:"type" validate:"required,oneof=percentage fixed_amount"`
	Value    string    `json:"value" validate:"required"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
}

// parseDecimal parses a decimal string from a request, writing a 400
// response and returning false on failure.
func parseDecimal(w http.ResponseWriter, field, value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: field + " must be a valid decimal number"},
		})
		return decimal.Decimal{}, false
	}
	return d, true
}

// ListVariants handles GET /api/v1/products/{productId}/variants
func (h *VariantHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	variants, err := h.service.ListVariantsByProduct(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: variants})
}

// CreateVariant handles POST /api/v1/products/{productId}/variants
// An optional discount block creates the variant and its launch discount
// atomically.
func (h *VariantHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	price, ok := parseDecimal(w, "price", req.Price)
	if !ok {
		return
	}

	input := &service.CreateVariantInput{
		ProductID:   productID.String(),
		Condition:   req.Condition,
		Price:       price,
		StockStatus: req.StockStatus,
		Quantity:    req.Quantity,
		Description: req.Description,
	}

	if req.Discount != nil {
		value, ok := parseDecimal(w, "discount value", req.Discount.Value)
		if !ok {
			return
		}
		input.Discount = &service.AttachDiscountInput{
			Type:     req.Discount.Type,
			Value:    value,
			StartsAt: req.Discount.StartsAt,
			EndsAt:   req.Discount.EndsAt,
		}
	}

	variant, err := h.service.CreateVariant(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: variant})
}

// GetVariant handles GET /api/v1/variants/{id}
// Returns the variant with its active discount, effective price, and
// availability.
func (h *VariantHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.service.GetVariantDetail(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// UpdateVariant handles PUT /api/v1/variants/{id}
func (h *VariantHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateVariantInput{
		Condition:   req.Condition,
		StockStatus: req.StockStatus,
		Quantity:    req.Quantity,
		Description: req.Description,
	}
	if req.Price != nil {
		price, ok := parseDecimal(w, "price", *req.Price)
		if !ok {
			return
		}
		input.Price = &price
	}

	variant, err := h.service.UpdateVariant(r.Context(), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: variant})
}

// PublishVariant handles POST /api/v1/variants/{id}/publish
func (h *VariantHandler) PublishVariant(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

// UnpublishVariant handles POST /api/v1/variants/{id}/unpublish
func (h *VariantHandler) UnpublishVariant(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *VariantHandler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	variant, err := h.service.SetVariantPublished(r.Context(), id.String(), published)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: variant})
}

// DeleteVariant handles DELETE /api/v1/variants/{id}
func (h *VariantHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteVariant(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListDiscounts handles GET /api/v1/variants/{id}/discounts
// With active=true only the currently active discount is returned.
func (h *VariantHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if r.URL.Query().Get("active") == "true" {
		discount, err := h.service.GetActiveDiscount(r.Context(), id.String())
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: discount})
		return
	}

	discounts, err := h.service.ListDiscounts(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: discounts})
}

// AttachDiscount handles POST /api/v1/variants/{id}/discounts
func (h *VariantHandler) AttachDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttachDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	value, ok := parseDecimal(w, "value", req.Value)
	if !ok {
		return
	}

	discount, err := h.service.AttachDiscount(r.Context(), id.String(), &service.AttachDiscountInput{
		Type:     req.Type,
		Value:    value,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: discount})
}

// RemoveDiscount handles DELETE /api/v1/variants/{id}/discounts/{discountId}
func (h *VariantHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	if _, ok := httputil.ParseUUID(w, chi.URLParam(r, "id")); !ok {
		return
	}
	discountID, ok := httputil.ParseUUID(w, chi.URLParam(r, "discountId"))
	if !ok {
		return
	}

	if err := h.service.RemoveDiscount(r.Context(), discountID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
