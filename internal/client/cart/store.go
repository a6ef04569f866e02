// Package cart keeps the client's cart view synchronized with the server.
//
// The server is the sole authority: every endpoint returns the full cart
// representation and the store replaces its items and total wholesale on
// each success, never merging with prior local state. All operations are
// serialized in submission order so a burst of mutations cannot leave the
// view one response behind.
package cart

import (
	"context"
	"fmt"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/models"
	"github.com/avidals/bocado/internal/client/store"
)

const (
	OpFetch      = "fetch"
	OpAddItem    = "add_item"
	OpUpdateItem = "update_item"
	OpRemoveItem = "remove_item"
	OpClear      = "clear"
)

type State struct {
	Items      []models.CartItem
	TotalPrice models.Amount
}

type Store struct {
	*store.Store[State]
	gw *api.Gateway
}

func NewStore(gw *api.Gateway) *Store {
	return &Store{Store: store.New[State](), gw: gw}
}

func (s *Store) Fetch(ctx context.Context) error {
	return s.replaceFrom(ctx, OpFetch, func(ctx context.Context) (models.Cart, error) {
		var cart models.Cart
		err := s.gw.Get(ctx, "/orders/cart/my-cart/", nil, &cart)
		return cart, err
	})
}

func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) error {
	return s.replaceFrom(ctx, OpAddItem, func(ctx context.Context) (models.Cart, error) {
		req := map[string]any{"product_id": productID, "quantity": quantity}
		var cart models.Cart
		err := s.gw.Post(ctx, "/orders/cart/add-item/", req, &cart)
		return cart, err
	})
}

func (s *Store) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	return s.replaceFrom(ctx, OpUpdateItem, func(ctx context.Context) (models.Cart, error) {
		req := map[string]any{"quantity": quantity}
		var cart models.Cart
		err := s.gw.Patch(ctx, fmt.Sprintf("/orders/cart/update-item/%d/", itemID), req, &cart)
		return cart, err
	})
}

func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	return s.replaceFrom(ctx, OpRemoveItem, func(ctx context.Context) (models.Cart, error) {
		var cart models.Cart
		err := s.gw.Delete(ctx, fmt.Sprintf("/orders/cart/remove-item/%d/", itemID), &cart)
		return cart, err
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.replaceFrom(ctx, OpClear, func(ctx context.Context) (models.Cart, error) {
		var cart models.Cart
		err := s.gw.Delete(ctx, "/orders/cart/clear-cart/", &cart)
		return cart, err
	})
}

func (s *Store) replaceFrom(ctx context.Context, op string, call func(ctx context.Context) (models.Cart, error)) error {
	return s.Do(ctx, op, store.Mutate, func(ctx context.Context) (func(*State), error) {
		cart, err := call(ctx)
		if err != nil {
			return nil, err
		}
		return func(st *State) {
			st.Items = cart.Items
			if st.Items == nil {
				st.Items = []models.CartItem{}
			}
			st.TotalPrice = cart.TotalPrice
		}, nil
	})
}
