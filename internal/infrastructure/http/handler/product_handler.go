package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mrops-br/product-store/internal/app/dto"
	"github.com/mrops-br/product-store/internal/domain"
	"github.com/mrops-br/product-store/internal/infrastructure/http/response"
)

// ProductService is the use-case surface the handler depends on
type ProductService interface {
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductResponse, error)
	GetProductByID(ctx context.Context, id int64) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) []*dto.ProductResponse
	UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id int64)
	SearchProducts(ctx context.Context, criteria dto.SearchCriteria) ([]*dto.ProductResponse, error)
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service  ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ListProducts(r.Context()))
}

// UpdateProduct handles PUT /products/{id}. The ID in the path is the one stored.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	h.service.DeleteProduct(r.Context(), id)
	response.NoContent(w, http.StatusNoContent)
}

// SearchProducts handles GET /products/search
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := dto.SearchCriteria{
		Category:     q.Get("category"),
		NameContains: q.Get("name"),
	}

	var err error
	if criteria.StockAbove, err = parseOptionalFloat(q.Get("stock_above")); err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Errorf("stock_above: %w", err))
		return
	}
	if criteria.MaxPrice, err = parseOptionalFloat(q.Get("max_price")); err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Errorf("max_price: %w", err))
		return
	}
	if err := h.validate.StructCtx(r.Context(), criteria); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err)
		return
	}

	products, err := h.service.SearchProducts(r.Context(), criteria)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*dto.ProductRequest, bool) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return nil, false
	}

	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		h.logger.WarnContext(r.Context(), "Request body failed validation",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}

	return &req, true
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Errorf("invalid product id %q", raw))
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidCategory):
		response.Error(w, http.StatusBadRequest, err)
	default:
		response.Error(w, http.StatusInternalServerError, err)
	}
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
