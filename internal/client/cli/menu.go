package cli

import (
	"context"
	"fmt"

	"github.com/avidals/bocado/internal/client/catalog"
)

func (a *App) ShowCategories(ctx context.Context) {
	if err := a.catalog.FetchCategories(ctx); err != nil {
		printAPIError("Could not load categories", err)
		return
	}
	for _, c := range a.catalog.Snapshot().Categories {
		fmt.Printf("%-20s %s\n", c.Slug, c.Name)
	}
}

func (a *App) ShowProducts(ctx context.Context, search string) {
	err := a.catalog.FetchProducts(ctx, catalog.ProductFilter{Search: search})
	if err != nil {
		printAPIError("Could not load products", err)
		return
	}
	st := a.catalog.Snapshot()
	for _, p := range st.Products {
		availability := ""
		if !p.Available {
			availability = " (unavailable)"
		}
		fmt.Printf("%-25s %8s  %s%s\n", p.Slug, p.Price.Display(), p.Name, availability)
	}
	if st.Pagination.Count > len(st.Products) {
		fmt.Printf("showing %d of %d\n", len(st.Products), st.Pagination.Count)
	}
}

func (a *App) ShowProduct(ctx context.Context, slug string) {
	if err := a.catalog.FetchProduct(ctx, slug); err != nil {
		printAPIError("Could not load product", err)
		return
	}
	p := a.catalog.Snapshot().CurrentProduct
	if p == nil {
		return
	}
	fmt.Printf("%s (%s)\n", p.Name, p.Price.Display())
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Printf("rating: %s  id: %d\n", p.Rating.Display(), p.ID)
}
