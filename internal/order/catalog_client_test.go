package order

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStockReturnsValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog/stock/3", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("42"))
	}))
	defer srv.Close()

	client := NewCatalogClient(srv.URL)
	stock, err := client.GetStock(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), stock)
}

func TestGetStockNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "This item does not exist.", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewCatalogClient(srv.URL)
	_, err := client.GetStock(context.Background(), 999)
	assert.Error(t, err)
}

func TestGetStockUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a number"))
	}))
	defer srv.Close()

	client := NewCatalogClient(srv.URL)
	_, err := client.GetStock(context.Background(), 1)
	assert.Error(t, err)
}

func TestGetStockConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := NewCatalogClient(srv.URL)
	_, err := client.GetStock(context.Background(), 1)
	assert.Error(t, err)
}
