package dto

import (
	"time"

	"github.com/mrops-br/product-store/internal/domain"
)

// ProductRequest is the body accepted to create or update a product.
// Price and stock are deliberately not range-checked.
type ProductRequest struct {
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	StockQuantity float64    `json:"stock_quantity"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Category      string     `json:"category" validate:"omitempty,oneof=cosmetic nutritive"`
}

// SearchCriteria holds the optional search filters; nil fields are not applied.
type SearchCriteria struct {
	Category     string   `validate:"omitempty,oneof=cosmetic nutritive"`
	StockAbove   *float64
	MaxPrice     *float64
	NameContains string
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	StockQuantity float64    `json:"stock_quantity"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Category      string     `json:"category,omitempty"`
}

// ToProduct converts the request into a domain Product carrying id.
func (r *ProductRequest) ToProduct(id int64) (domain.Product, error) {
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.Product{}, err
	}

	b := domain.NewProductBuilder().
		ID(id).
		Name(r.Name).
		Price(r.Price).
		StockQuantity(r.StockQuantity).
		Category(category)
	if r.CreatedAt != nil {
		b.CreatedAt(*r.CreatedAt)
	}
	if r.ExpiresAt != nil {
		b.ExpiresAt(*r.ExpiresAt)
	}
	return b.Build(), nil
}

// Predicate compiles the criteria into a conjunction of domain predicates.
func (c SearchCriteria) Predicate() (domain.Predicate, error) {
	var preds []domain.Predicate
	if c.Category != "" {
		category, err := domain.ParseCategory(c.Category)
		if err != nil {
			return nil, err
		}
		preds = append(preds, domain.ByCategory(category))
	}
	if c.StockAbove != nil {
		preds = append(preds, domain.StockAbove(*c.StockAbove))
	}
	if c.MaxPrice != nil {
		preds = append(preds, domain.PriceAtMost(*c.MaxPrice))
	}
	if c.NameContains != "" {
		preds = append(preds, domain.NameContains(c.NameContains))
	}
	return domain.And(preds...), nil
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		ExpiresAt:     p.ExpiresAt,
		Category:      string(p.Category),
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
