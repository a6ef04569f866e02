package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/store"
)

type creds struct{}

func (creds) Access(ctx context.Context) (string, bool)     { return "tok", true }
func (creds) Refresh(ctx context.Context) (string, bool)    { return "ref", true }
func (creds) SetAccess(ctx context.Context, a string) error { return nil }

func newStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := api.New(api.Config{BaseURL: srv.URL, Credentials: creds{}})
	require.NoError(t, err)
	return NewStore(gw)
}

func TestFetchHandlesEnvelopeAndBareArray(t *testing.T) {
	t.Run("paginated envelope", func(t *testing.T) {
		s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"count": 1, "next": null, "previous": null, "results": [{"id": 9, "status": "pending", "total_price": "21.00"}]}`))
		}))
		require.NoError(t, s.Fetch(context.Background()))
		require.Len(t, s.Snapshot().Orders, 1)
		assert.Equal(t, int64(9), s.Snapshot().Orders[0].ID)
	})

	t.Run("bare array", func(t *testing.T) {
		s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id": 9, "status": "delivered", "total_price": 21}]`))
		}))
		require.NoError(t, s.Fetch(context.Background()))
		require.Len(t, s.Snapshot().Orders, 1)
		assert.Equal(t, "delivered", s.Snapshot().Orders[0].Status)
	})

	t.Run("empty history is non-nil", func(t *testing.T) {
		s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		}))
		require.NoError(t, s.Fetch(context.Background()))
		assert.NotNil(t, s.Snapshot().Orders)
		assert.Empty(t, s.Snapshot().Orders)
	})
}

func TestFetchDetailNotFound(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
	}))

	err := s.FetchDetail(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
	assert.Nil(t, s.Snapshot().CurrentOrder)
	assert.Equal(t, store.StatusFailed, s.Status(OpFetchDetail))
}

func TestCreateRaisesOneShotFlag(t *testing.T) {
	var got CreateRequest
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/orders/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 31, "status": "pending", "total_price": "21.00"}`))
	}))

	ctx := context.Background()
	require.NoError(t, s.Create(ctx, CreateRequest{DeliveryAddress: "Calle Mayor 1", Notes: "no onion"}))

	assert.Equal(t, "Calle Mayor 1", got.DeliveryAddress)
	assert.Equal(t, "no onion", got.Notes)

	st := s.Snapshot()
	require.NotNil(t, st.CurrentOrder)
	assert.Equal(t, int64(31), st.CurrentOrder.ID)
	assert.True(t, st.OrderCreated)

	// The flag reads exactly once.
	assert.True(t, s.ConsumeOrderCreated())
	assert.False(t, s.ConsumeOrderCreated())
	assert.False(t, s.Snapshot().OrderCreated)
}

func TestCreateFailureLeavesFlagDown(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"non_field_errors": ["cart is empty"]}`))
	}))

	err := s.Create(context.Background(), CreateRequest{DeliveryAddress: "x"})
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	assert.False(t, s.ConsumeOrderCreated())
	require.NotNil(t, s.Err(OpCreate))
	assert.Equal(t, "cart is empty", s.Err(OpCreate).Message)
}

func TestCancelUpdatesHistoryEntry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 9, "status": "pending"}, {"id": 10, "status": "pending"}]`))
	})
	mux.HandleFunc("/orders/orders/9/cancel/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 9, "status": "cancelled"}`))
	})
	s := newStore(t, mux)

	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx))
	require.NoError(t, s.Cancel(ctx, 9))

	st := s.Snapshot()
	assert.Equal(t, "cancelled", st.Orders[0].Status)
	assert.Equal(t, "pending", st.Orders[1].Status, "other entries untouched")
	require.NotNil(t, st.CurrentOrder)
	assert.Equal(t, "cancelled", st.CurrentOrder.Status)
}

func TestDownloadInvoiceWritesFile(t *testing.T) {
	payload := []byte("%PDF-1.4 invoice 31")
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoices/download/31/", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(payload)
	}))

	dir := filepath.Join(t.TempDir(), "downloads")
	path, err := s.DownloadInvoice(context.Background(), 31, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice-31.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadInvoiceFailureWritesNothing(t *testing.T) {
	s := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Not found."}`))
	}))

	dir := filepath.Join(t.TempDir(), "downloads")
	_, err := s.DownloadInvoice(context.Background(), 404, dir)
	require.Error(t, err)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "no directory created on failure")
}
