// Package demo walks a repository through list, create, find, update,
// delete and search, printing the store after each step.
package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/mrops-br/product-store/internal/domain"
)

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf("===================== %s =====================\n", title)
}

func (p *printer) products(products []domain.Product) {
	for _, product := range products {
		p.printf("%s\n", product)
	}
}

// Run executes the walkthrough against repo, which is expected to hold the
// three seed products and nothing else. Only write errors are returned.
func Run(ctx context.Context, w io.Writer, repo domain.ProductRepository) error {
	p := &printer{w: w}

	p.section("All products")
	p.products(repo.FindAll(ctx))

	p.section("Add a product")
	created := repo.Create(ctx, domain.NewProductBuilder().
		Name("Lait").
		Price(10).
		StockQuantity(500).
		Category(domain.CategoryNutritive).
		Build())
	p.products(repo.FindAll(ctx))

	p.section("Find a product")
	if found, ok := repo.FindByID(ctx, created.ID); ok {
		p.printf("%s\n", found)
	} else {
		p.printf("no product with id %d\n", created.ID)
	}

	p.section("Update a product")
	repo.Update(ctx, domain.NewProductBuilder().
		ID(created.ID).
		Name("Lait").
		Price(13).
		StockQuantity(1500).
		Category(domain.CategoryNutritive).
		Build())
	p.products(repo.FindAll(ctx))

	p.section("Delete a product")
	repo.Delete(ctx, created.ID)
	p.products(repo.FindAll(ctx))

	p.section("Search products")
	p.products(repo.Search(ctx, domain.And(
		domain.ByCategory(domain.CategoryCosmetic),
		domain.StockAbove(80),
	)))

	return p.err
}
