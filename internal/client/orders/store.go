// Package orders holds the order history view, the currently opened order,
// and order placement, including invoice download.
package orders

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/models"
	"github.com/avidals/bocado/internal/client/store"
)

const (
	OpFetch       = "fetch"
	OpFetchDetail = "fetch_detail"
	OpCreate      = "create"
	OpCancel      = "cancel"
)

type State struct {
	Orders       []models.Order
	CurrentOrder *models.Order

	// OrderCreated is a one-shot signal for the post-checkout navigation
	// decision; ConsumeOrderCreated clears it.
	OrderCreated bool
}

// CreateRequest is the order placement payload.
type CreateRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes,omitempty"`
}

type Store struct {
	*store.Store[State]
	gw *api.Gateway
}

func NewStore(gw *api.Gateway) *Store {
	return &Store{Store: store.New[State](), gw: gw}
}

func (s *Store) Fetch(ctx context.Context) error {
	return s.Do(ctx, OpFetch, store.Read, func(ctx context.Context) (func(*State), error) {
		var list models.List[models.Order]
		if err := s.gw.Get(ctx, "/orders/orders/", nil, &list); err != nil {
			return nil, err
		}
		return func(st *State) {
			st.Orders = list.Results
			if st.Orders == nil {
				st.Orders = []models.Order{}
			}
		}, nil
	})
}

func (s *Store) FetchDetail(ctx context.Context, orderID int64) error {
	return s.Do(ctx, OpFetchDetail, store.Read, func(ctx context.Context) (func(*State), error) {
		var order models.Order
		if err := s.gw.Get(ctx, fmt.Sprintf("/orders/orders/%d/", orderID), nil, &order); err != nil {
			return nil, err
		}
		return func(st *State) { st.CurrentOrder = &order }, nil
	})
}

// Create places an order and raises the one-shot created flag.
func (s *Store) Create(ctx context.Context, req CreateRequest) error {
	return s.Do(ctx, OpCreate, store.Mutate, func(ctx context.Context) (func(*State), error) {
		var order models.Order
		if err := s.gw.Post(ctx, "/orders/orders/", req, &order); err != nil {
			return nil, err
		}
		return func(st *State) {
			st.CurrentOrder = &order
			st.OrderCreated = true
		}, nil
	})
}

func (s *Store) Cancel(ctx context.Context, orderID int64) error {
	return s.Do(ctx, OpCancel, store.Mutate, func(ctx context.Context) (func(*State), error) {
		var order models.Order
		if err := s.gw.Post(ctx, fmt.Sprintf("/orders/orders/%d/cancel/", orderID), nil, &order); err != nil {
			return nil, err
		}
		return func(st *State) {
			st.CurrentOrder = &order
			for i := range st.Orders {
				if st.Orders[i].ID == order.ID {
					st.Orders[i] = order
				}
			}
		}, nil
	})
}

// ConsumeOrderCreated reads and clears the one-shot created flag.
func (s *Store) ConsumeOrderCreated() bool {
	created := false
	s.Apply(func(st *State) {
		created = st.OrderCreated
		st.OrderCreated = false
	})
	return created
}

// ClearCurrentOrder drops the detail view.
func (s *Store) ClearCurrentOrder() {
	s.Apply(func(st *State) { st.CurrentOrder = nil })
}

// DownloadInvoice buffers the invoice PDF fully and saves it under dir,
// returning the written path. The in-memory buffer is released as soon as
// the file is on disk.
func (s *Store) DownloadInvoice(ctx context.Context, orderID int64, dir string) (string, error) {
	data, _, err := s.gw.Download(ctx, fmt.Sprintf("/invoices/download/%d/", orderID))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("invoice-%d.pdf", orderID))
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("write invoice: %w", err)
	}
	return path, nil
}
