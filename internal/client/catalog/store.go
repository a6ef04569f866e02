// Package catalog holds the menu view: categories, the product listing with
// its filters and pagination, and the currently opened product.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/models"
	"github.com/avidals/bocado/internal/client/store"
)

const (
	OpFetchCategories = "fetch_categories"
	OpFetchProducts   = "fetch_products"
	OpFetchProduct    = "fetch_product"
)

type State struct {
	Categories     []models.Category
	Products       []models.Product
	CurrentProduct *models.Product
	Pagination     models.Pagination
}

// ProductFilter maps to the listing endpoint's query parameters. Zero-valued
// fields are omitted.
type ProductFilter struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	Available *bool
	MinRating *float64
	Search    string
	Ordering  string
	Page      int
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Available != nil {
		q.Set("is_available", strconv.FormatBool(*f.Available))
	}
	if f.MinRating != nil {
		q.Set("rating", strconv.FormatFloat(*f.MinRating, 'f', -1, 64))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

type Store struct {
	*store.Store[State]
	gw *api.Gateway
}

func NewStore(gw *api.Gateway) *Store {
	return &Store{Store: store.New[State](), gw: gw}
}

func (s *Store) FetchCategories(ctx context.Context) error {
	return s.Do(ctx, OpFetchCategories, store.Read, func(ctx context.Context) (func(*State), error) {
		var list models.List[models.Category]
		if err := s.gw.Get(ctx, "/menu/categories/", nil, &list); err != nil {
			return nil, err
		}
		return func(st *State) { st.Categories = list.Results }, nil
	})
}

func (s *Store) FetchProducts(ctx context.Context, filter ProductFilter) error {
	return s.Do(ctx, OpFetchProducts, store.Read, func(ctx context.Context) (func(*State), error) {
		var list models.List[models.Product]
		if err := s.gw.Get(ctx, "/menu/products/", filter.query(), &list); err != nil {
			return nil, err
		}
		return func(st *State) {
			st.Products = list.Results
			if list.Paged {
				st.Pagination = list.Pagination()
			}
		}, nil
	})
}

// Search is a convenience for a text-only product query.
func (s *Store) Search(ctx context.Context, query string) error {
	return s.FetchProducts(ctx, ProductFilter{Search: query})
}

func (s *Store) FetchProduct(ctx context.Context, slug string) error {
	return s.Do(ctx, OpFetchProduct, store.Read, func(ctx context.Context) (func(*State), error) {
		var p models.Product
		if err := s.gw.Get(ctx, fmt.Sprintf("/menu/products/%s/", slug), nil, &p); err != nil {
			return nil, err
		}
		return func(st *State) { st.CurrentProduct = &p }, nil
	})
}

// ClearCurrentProduct drops the detail view, e.g. when leaving it.
func (s *Store) ClearCurrentProduct() {
	s.Apply(func(st *State) { st.CurrentProduct = nil })
}
