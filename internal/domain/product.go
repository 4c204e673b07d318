package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("product category must be cosmetic or nutritive")
)

// Category tags a product with one of a closed set of kinds.
// The zero value means no category was given.
type Category string

const (
	CategoryCosmetic  Category = "cosmetic"
	CategoryNutritive Category = "nutritive"
)

// ParseCategory maps free text onto a Category. Empty input yields the
// zero Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CategoryCosmetic, CategoryNutritive:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// Product represents one stocked item
type Product struct {
	ID            int64
	Name          string
	Price         float64
	StockQuantity float64
	CreatedAt     *time.Time
	ExpiresAt     *time.Time
	Category      Category
}

// Clone returns a copy of p that shares no memory with it.
func (p Product) Clone() Product {
	p.CreatedAt = copyTime(p.CreatedAt)
	p.ExpiresAt = copyTime(p.ExpiresAt)
	return p
}

// String renders the product on a single line.
func (p Product) String() string {
	return fmt.Sprintf("Product{id=%d, name=%q, price=%.2f, stock=%g, createdAt=%s, expiresAt=%s, category=%s}",
		p.ID, p.Name, p.Price, p.StockQuantity,
		formatTime(p.CreatedAt), formatTime(p.ExpiresAt), formatCategory(p.Category))
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "<none>"
	}
	return t.Format(time.RFC3339)
}

func formatCategory(c Category) string {
	if c == "" {
		return "<none>"
	}
	return string(c)
}
