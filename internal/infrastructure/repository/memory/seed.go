package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/product-store/internal/domain"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/mrops-br/product-store/internal/infrastructure/repository/memory"

// SeedProducts returns the products every fresh store starts with, in the
// order they are created.
func SeedProducts() []domain.Product {
	return []domain.Product{
		domain.NewProductBuilder().
			Name("Libre").
			Price(580.23).
			Category(domain.CategoryCosmetic).
			StockQuantity(100).
			Build(),
		domain.NewProductBuilder().
			Name("yaourt").
			Price(12.45).
			Category(domain.CategoryNutritive).
			StockQuantity(300).
			Build(),
		domain.NewProductBuilder().
			Name("Gel Cheveux").
			Price(100.00).
			Category(domain.CategoryCosmetic).
			StockQuantity(50).
			Build(),
	}
}

// Seed creates the seed products through repo.Create, so on an empty
// repository they get IDs 1, 2 and 3.
func Seed(ctx context.Context, repo domain.ProductRepository) []domain.Product {
	seeds := SeedProducts()
	created := make([]domain.Product, 0, len(seeds))
	for _, p := range seeds {
		created = append(created, repo.Create(ctx, p))
	}
	return created
}

var instance = sync.OnceValue(func() *ProductRepository {
	repo := NewProductRepository(otel.Tracer(instrumentationName), slog.Default())
	Seed(context.Background(), repo)
	return repo
})

// Instance returns the process-wide seeded repository, building it on first
// use. Prefer NewProductRepository and Seed where the caller owns wiring.
func Instance() *ProductRepository {
	return instance()
}
