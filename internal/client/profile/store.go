// Package profile holds the authenticated user's profile view.
package profile

import (
	"context"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/models"
	"github.com/avidals/bocado/internal/client/store"
)

const (
	OpFetch  = "fetch"
	OpUpdate = "update"
)

type State struct {
	User *models.User
}

type Store struct {
	*store.Store[State]
	gw *api.Gateway
}

func NewStore(gw *api.Gateway) *Store {
	return &Store{Store: store.New[State](), gw: gw}
}

// Fetch resolves the current user through the gateway.
func (s *Store) Fetch(ctx context.Context) error {
	return s.Do(ctx, OpFetch, store.Read, func(ctx context.Context) (func(*State), error) {
		var user models.User
		if err := s.gw.Get(ctx, "/users/profile/", nil, &user); err != nil {
			return nil, err
		}
		return func(st *State) { st.User = &user }, nil
	})
}

// Update patches the profile with the given fields and replaces the local
// view with the server's response.
func (s *Store) Update(ctx context.Context, fields map[string]any) error {
	return s.Do(ctx, OpUpdate, store.Mutate, func(ctx context.Context) (func(*State), error) {
		var user models.User
		if err := s.gw.Patch(ctx, "/users/profile/", fields, &user); err != nil {
			return nil, err
		}
		return func(st *State) { st.User = &user }, nil
	})
}

// User returns the resolved user, or nil when not authenticated.
func (s *Store) User() *models.User {
	return s.Snapshot().User
}
