package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/store"
)

type creds struct{ access string }

func (c creds) Access(ctx context.Context) (string, bool)  { return c.access, c.access != "" }
func (c creds) Refresh(ctx context.Context) (string, bool) { return "", false }
func (c creds) SetAccess(ctx context.Context, a string) error {
	return nil
}

func newStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := api.New(api.Config{BaseURL: srv.URL, Credentials: creds{access: "tok"}})
	require.NoError(t, err)
	return NewStore(gw)
}

func TestFetchReplacesWholesale(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/cart/my-cart/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [{"id": 11, "product": {"id": 5, "name": "Empanada", "price": "4.50"}, "quantity": 2}],
			"total_price": "9.00"
		}`))
	}))

	// Pre-existing local state must not survive the replacement.
	s.Apply(func(st *State) { st.TotalPrice = 99 })

	require.NoError(t, s.Fetch(context.Background()))

	st := s.Snapshot()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Empanada", st.Items[0].Product.Name)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, "9.00", st.TotalPrice.Display())
	assert.Equal(t, store.StatusSucceeded, s.Status(OpFetch))
}

func TestEmptyCartHasNonNilItems(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": null, "total_price": 0}`))
	}))

	require.NoError(t, s.Fetch(context.Background()))

	st := s.Snapshot()
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.Equal(t, "0.00", st.TotalPrice.Display())
}

func TestAddItemSendsProductAndQuantity(t *testing.T) {
	var got map[string]any
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/cart/add-item/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [{"id": 1, "product": {"id": 5}, "quantity": 3}], "total_price": "13.50"}`))
	}))

	require.NoError(t, s.AddItem(context.Background(), 5, 3))

	assert.Equal(t, float64(5), got["product_id"])
	assert.Equal(t, float64(3), got["quantity"])
	assert.Equal(t, "13.50", s.Snapshot().TotalPrice.Display())
}

func TestValidationFailureKeepsCart(t *testing.T) {
	var calls int
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			_, _ = w.Write([]byte(`{"items": [{"id": 1, "product": {"id": 5}, "quantity": 1}], "total_price": "4.50"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"quantity": ["must be positive"]}`))
	}))

	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx))

	err := s.UpdateItem(ctx, 1, -2)
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))

	st := s.Snapshot()
	require.Len(t, st.Items, 1, "failed mutation leaves the view untouched")
	assert.Equal(t, "4.50", st.TotalPrice.Display())
	assert.Equal(t, store.StatusFailed, s.Status(OpUpdateItem))
	require.NotNil(t, s.Err(OpUpdateItem))
	assert.Equal(t, []string{"must be positive"}, s.Err(OpUpdateItem).Fields["quantity"])
}

// An add whose response is delayed past a later remove must not clobber the
// remove's result: the store serializes cart mutations in submission order.
func TestDelayedResponseCannotClobberLaterMutation(t *testing.T) {
	addStarted := make(chan struct{})
	releaseAdd := make(chan struct{})
	var mu sync.Mutex
	var order []string

	mux := http.NewServeMux()
	mux.HandleFunc("/orders/cart/add-item/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, "add")
		mu.Unlock()
		close(addStarted)
		<-releaseAdd // slow response
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [{"id": 1, "product": {"id": 5}, "quantity": 1}], "total_price": "4.50"}`))
	})
	mux.HandleFunc("/orders/cart/remove-item/1/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		order = append(order, "remove")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [], "total_price": "0.00"}`))
	})
	s := newStore(t, mux)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.AddItem(ctx, 5, 1)
	}()
	<-addStarted
	go func() {
		defer wg.Done()
		_ = s.RemoveItem(ctx, 1)
	}()

	// Give the remove a moment to overtake if it illegally could, then let
	// the slow add response land.
	time.Sleep(50 * time.Millisecond)
	close(releaseAdd)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"add", "remove"}, order, "server saw submission order")

	st := s.Snapshot()
	assert.Empty(t, st.Items, "final state reflects the last mutation")
	assert.Equal(t, "0.00", st.TotalPrice.Display())
}

func TestClearEmptiesCart(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/cart/clear-cart/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [], "total_price": "0.00"}`))
	}))

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, s.Snapshot().Items)
}

func TestStringTotalPriceIsCoerced(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [], "total_price": "17.25"}`))
	}))

	require.NoError(t, s.Fetch(context.Background()))
	assert.InDelta(t, 17.25, s.Snapshot().TotalPrice.Float64(), 1e-9)
}
