package domain

import "time"

// ProductBuilder assembles a Product field by field. Setters may be called
// in any order and none is required before Build.
type ProductBuilder struct {
	p Product
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{}
}

// ID sets the identity. Create ignores it; Update relies on it.
func (b *ProductBuilder) ID(id int64) *ProductBuilder {
	b.p.ID = id
	return b
}

func (b *ProductBuilder) Name(name string) *ProductBuilder {
	b.p.Name = name
	return b
}

func (b *ProductBuilder) Price(price float64) *ProductBuilder {
	b.p.Price = price
	return b
}

func (b *ProductBuilder) StockQuantity(qty float64) *ProductBuilder {
	b.p.StockQuantity = qty
	return b
}

func (b *ProductBuilder) CreatedAt(t time.Time) *ProductBuilder {
	b.p.CreatedAt = &t
	return b
}

func (b *ProductBuilder) ExpiresAt(t time.Time) *ProductBuilder {
	b.p.ExpiresAt = &t
	return b
}

func (b *ProductBuilder) Category(c Category) *ProductBuilder {
	b.p.Category = c
	return b
}

// Build returns a new Product holding the accumulated fields. Each call
// returns an independent value; the builder keeps its state.
func (b *ProductBuilder) Build() Product {
	return b.p.Clone()
}
