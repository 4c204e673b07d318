package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/product-store/internal/app/dto"
	"github.com/mrops-br/product-store/internal/domain"
	"github.com/mrops-br/product-store/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

type fixture struct {
	service *ProductService
	reader  *sdkmetric.ManualReader
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	repo := memory.NewProductRepository(tracer, logger)
	memory.Seed(context.Background(), repo)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	return fixture{
		service: NewProductService(repo, tracer, mp.Meter("test"), logger),
		reader:  reader,
	}
}

func (f fixture) collect(t *testing.T) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func operationCount(t *testing.T, data metricdata.Aggregation, operation, result string) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok)
	want := attribute.NewSet(attribute.String("operation", operation), attribute.String("result", result))
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestProductService_CreateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.service.CreateProduct(ctx, &dto.ProductRequest{
		Name:          "Lait",
		Price:         10,
		StockQuantity: 500,
		Category:      "nutritive",
	})
	require.NoError(t, err)

	assert.Equal(t, &dto.ProductResponse{
		ID:            4,
		Name:          "Lait",
		Price:         10,
		StockQuantity: 500,
		Category:      "nutritive",
	}, got)

	metrics := f.collect(t)
	created, ok := metrics["products.created.total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(1), created.DataPoints[0].Value)
	assert.Equal(t, int64(1), operationCount(t, metrics["products.operations"], "create", "success"))

	stored, ok := metrics["products.stored"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, stored.DataPoints, 1)
	assert.Equal(t, int64(4), stored.DataPoints[0].Value)
}

func TestProductService_CreateProductInvalidCategory(t *testing.T) {
	f := newFixture(t)

	got, err := f.service.CreateProduct(context.Background(), &dto.ProductRequest{Name: "Toy", Category: "toy"})

	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.Nil(t, got)
	assert.Len(t, f.service.ListProducts(context.Background()), 3)
	assert.Equal(t, int64(1), operationCount(t, f.collect(t)["products.operations"], "create", "failure"))
}

func TestProductService_GetProductByID(t *testing.T) {
	testCases := []struct {
		name        string
		id          int64
		expected    string
		expectError error
	}{
		{name: "Success - seeded product", id: 3, expected: "Gel Cheveux"},
		{name: "Error - product not found", id: 99, expectError: domain.ErrProductNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t)
			// when
			got, err := f.service.GetProductByID(context.Background(), tc.id)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, got)
				assert.Equal(t, int64(1), operationCount(t, f.collect(t)["products.operations"], "read", "not_found"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Name)
		})
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.service.UpdateProduct(ctx, 2, &dto.ProductRequest{Name: "yaourt nature", Price: 9.99, StockQuantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.ID)
	assert.Empty(t, updated.Category)

	got, err := f.service.GetProductByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "yaourt nature", got.Name)

	f.service.DeleteProduct(ctx, 2)
	f.service.DeleteProduct(ctx, 2)

	_, err = f.service.GetProductByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, int64(2), operationCount(t, f.collect(t)["products.operations"], "delete", "success"))
}

func TestProductService_SearchProducts(t *testing.T) {
	f := newFixture(t)
	above := 80.0

	got, err := f.service.SearchProducts(context.Background(), dto.SearchCriteria{
		Category:   "cosmetic",
		StockAbove: &above,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Libre", got[0].Name)

	_, err = f.service.SearchProducts(context.Background(), dto.SearchCriteria{Category: "toy"})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}
