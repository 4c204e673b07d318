package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/product-store/internal/app/dto"
	"github.com/mrops-br/product-store/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Counter is implemented by repositories that can report their size.
type Counter interface {
	Count() int
}

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service. When repo also
// implements Counter, the number of stored products is observed as a gauge.
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	if counter, ok := repo.(Counter); ok {
		_, err := meter.Int64ObservableGauge(
			"products.stored",
			metric.WithDescription("Number of products currently stored"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(counter.Count()))
				return nil
			}),
		)
		if err != nil {
			logger.Warn("Failed to register products.stored gauge", slog.String("error", err.Error()))
		}
	}

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

func (s *ProductService) recordOperation(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// CreateProduct creates a new product; the store assigns its ID
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.name", req.Name),
		attribute.Float64("product.price", req.Price),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
		slog.Float64("price", req.Price),
	)

	product, err := req.ToProduct(0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid product")
		s.logger.ErrorContext(ctx, "Failed to create product",
			slog.String("error", err.Error()),
		)
		s.recordOperation(ctx, "create", "failure")
		return nil, fmt.Errorf("create product: %w", err)
	}

	product = s.repo.Create(ctx, product)
	span.SetAttributes(attribute.Int64("product.id", product.ID))

	s.productCreatedCounter.Add(ctx, 1)
	s.recordOperation(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductByID retrieves a product by ID, returning domain.ErrProductNotFound when absent
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	s.logger.InfoContext(ctx, "Getting product by ID",
		slog.Int64("product_id", id),
	)

	product, ok := s.repo.FindByID(ctx, id)
	if !ok {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.Int64("product_id", id),
		)
		s.recordOperation(ctx, "read", "not_found")
		return nil, domain.ErrProductNotFound
	}

	s.recordOperation(ctx, "read", "success")

	s.logger.InfoContext(ctx, "Product retrieved successfully",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) []*dto.ProductResponse {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	s.logger.InfoContext(ctx, "Listing all products")

	products := s.repo.FindAll(ctx)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOperation(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products)
}

// UpdateProduct stores req under id, replacing whatever was there.
// Unknown IDs are inserted rather than rejected.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("product.id", id),
		attribute.String("product.name", req.Name),
	)

	s.logger.InfoContext(ctx, "Updating product",
		slog.Int64("product_id", id),
	)

	product, err := req.ToProduct(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid product")
		s.logger.ErrorContext(ctx, "Failed to update product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		s.recordOperation(ctx, "update", "failure")
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	product = s.repo.Update(ctx, product)
	s.recordOperation(ctx, "update", "success")

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(product), nil
}

// DeleteProduct removes a product; deleting an unknown ID succeeds
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	s.logger.InfoContext(ctx, "Deleting product",
		slog.Int64("product_id", id),
	)

	s.repo.Delete(ctx, id)
	s.recordOperation(ctx, "delete", "success")

	span.SetStatus(codes.Ok, "Product deleted")
}

// SearchProducts returns the products matching every given criterion
func (s *ProductService) SearchProducts(ctx context.Context, criteria dto.SearchCriteria) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.SearchProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("search.category", criteria.Category),
		attribute.String("search.name", criteria.NameContains),
	)

	pred, err := criteria.Predicate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid search criteria")
		s.recordOperation(ctx, "search", "failure")
		return nil, fmt.Errorf("search products: %w", err)
	}

	products := s.repo.Search(ctx, pred)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.recordOperation(ctx, "search", "success")

	s.logger.InfoContext(ctx, "Products searched successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products searched successfully")
	return dto.ToProductResponseList(products), nil
}
