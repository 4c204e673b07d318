package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the contract for product storage.
//
// Create assigns the next identity and ignores any ID already set.
// Update stores p under p.ID whether or not that ID exists, and never
// advances the identity counter. Delete of an unknown ID is a no-op.
// FindAll and Search return products in ascending ID order.
type ProductRepository interface {
	Create(ctx context.Context, product Product) Product
	FindAll(ctx context.Context) []Product
	FindByID(ctx context.Context, id int64) (Product, bool)
	Update(ctx context.Context, product Product) Product
	Delete(ctx context.Context, id int64)
	Search(ctx context.Context, pred Predicate) []Product
}
