package memory

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/mrops-br/product-store/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-memory implementation of domain.ProductRepository.
// Identities come from a counter that only ever grows, so a deleted ID is
// never handed out again by Create.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	lastID   int64
	tracer   trace.Tracer
	logger   *slog.Logger
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates an empty in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]domain.Product),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create assigns the next identity to product and stores it
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) domain.Product {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	r.mu.Lock()
	r.lastID++
	product.ID = r.lastID
	r.products[product.ID] = product.Clone()
	r.mu.Unlock()

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return product
}

// FindByID retrieves a product by ID. The second result is false when no
// product has that ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, bool) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	product, exists := r.products[id]
	r.mu.RUnlock()

	if !exists {
		span.SetAttributes(attribute.Bool("product.found", false))
		r.logger.DebugContext(ctx, "Product not found in repository",
			slog.Int64("product_id", id),
		)
		return domain.Product{}, false
	}

	span.SetAttributes(attribute.Bool("product.found", true))
	r.logger.DebugContext(ctx, "Product found in repository",
		slog.Int64("product_id", id),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product found")
	return product.Clone(), true
}

// FindAll retrieves all products in ascending ID order
func (r *ProductRepository) FindAll(ctx context.Context) []domain.Product {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	products := r.snapshot()

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products
}

// Update replaces the product stored under product.ID, inserting it if the
// ID is unknown. The identity counter is left alone, so an ID inserted here
// ahead of the counter will later be overwritten by Create.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) domain.Product {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.mu.Lock()
	_, existed := r.products[product.ID]
	r.products[product.ID] = product.Clone()
	lastID := r.lastID
	r.mu.Unlock()

	if !existed {
		r.logger.WarnContext(ctx, "Update inserted a product under an unknown ID",
			slog.Int64("product_id", product.ID),
			slog.Int64("last_assigned_id", lastID),
		)
	} else {
		r.logger.InfoContext(ctx, "Product updated in repository",
			slog.Int64("product_id", product.ID),
			slog.String("product_name", product.Name),
		)
	}

	span.SetAttributes(attribute.Bool("product.inserted", !existed))
	span.SetStatus(codes.Ok, "Product updated successfully")
	return product
}

// Delete removes the product with the given ID if it is present
func (r *ProductRepository) Delete(ctx context.Context, id int64) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	_, existed := r.products[id]
	delete(r.products, id)
	r.mu.Unlock()

	span.SetAttributes(attribute.Bool("product.deleted", existed))
	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int64("product_id", id),
		slog.Bool("existed", existed),
	)

	span.SetStatus(codes.Ok, "Product deleted")
}

// Search returns the products matching pred, in FindAll order. A nil
// predicate matches every product.
func (r *ProductRepository) Search(ctx context.Context, pred domain.Predicate) []domain.Product {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Search")
	defer span.End()

	// pred is caller code; run it outside the lock so it may call back in.
	all := r.snapshot()
	matched := make([]domain.Product, 0, len(all))
	for _, product := range all {
		if pred == nil || pred(product) {
			matched = append(matched, product)
		}
	}

	span.SetAttributes(
		attribute.Int("product.scanned", len(all)),
		attribute.Int("product.count", len(matched)),
	)

	r.logger.DebugContext(ctx, "Products searched in repository",
		slog.Int("scanned", len(all)),
		slog.Int("count", len(matched)),
	)

	span.SetStatus(codes.Ok, "Products searched successfully")
	return matched
}

// Count reports how many products are stored.
func (r *ProductRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.products)
}

func (r *ProductRepository) snapshot() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(r.products))
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, r.products[id].Clone())
	}
	return products
}
