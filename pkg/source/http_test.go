package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmetrics/sentinel/pkg/model"
	"github.com/shopmetrics/sentinel/pkg/source"
)

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProductSource_Decode(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `[
		{"id": 1, "name": "Desk Lamp", "stockQuantity": 3},
		{"id": 2, "productName": "Monitor", "stockQuantity": null},
		{"id": 3, "name": "Keyboard"}
	]`)

	s := source.NewHTTPProductSource(srv.URL, source.NewHTTPClient(time.Second))
	products, err := s.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Desk Lamp", products[0].Name)
	require.NotNil(t, products[0].Stock)
	assert.Equal(t, int64(3), *products[0].Stock)

	// Name falls back to productName; null and absent stock stay nil.
	assert.Equal(t, "Monitor", products[1].Name)
	assert.Nil(t, products[1].Stock)
	assert.Nil(t, products[2].Stock)
}

func TestHTTPProductSource_ServerError(t *testing.T) {
	srv := jsonServer(t, http.StatusInternalServerError, "boom")

	s := source.NewHTTPProductSource(srv.URL, source.NewHTTPClient(time.Second))
	_, err := s.Products(context.Background())
	assert.Error(t, err)
}

func TestHTTPProductSource_MalformedPayload(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"not": "an array"}`)

	s := source.NewHTTPProductSource(srv.URL, source.NewHTTPClient(time.Second))
	_, err := s.Products(context.Background())
	assert.Error(t, err)
}

func TestHTTPSaleSource_Decode(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `[
		{"id": 1, "userId": 10, "dateOfSale": "2026-02-20T14:30:00Z", "status": "COMPLETED", "totalAmount": 149.99},
		{"id": 2, "userId": 11, "dateOfSale": "2026-02-21T09:15:00", "status": "CANCELLED", "totalAmount": 20},
		{"id": 3, "userId": 12, "dateOfSale": "not-a-date", "status": "COMPLETED", "totalAmount": 5},
		{"id": 4, "userId": 13, "dateOfSale": "2026-02-22T08:00:00Z", "status": "PENDING"}
	]`)

	s := source.NewHTTPSaleSource(srv.URL, source.NewHTTPClient(time.Second))
	sales, err := s.Sales(context.Background())
	require.NoError(t, err)
	// The unparsable date is dropped, not fatal.
	require.Len(t, sales, 3)

	assert.Equal(t, time.Date(2026, 2, 20, 14, 30, 0, 0, time.UTC), sales[0].DateOfSale)
	assert.Equal(t, model.StatusCompleted, sales[0].Status)
	assert.Equal(t, 149.99, sales[0].TotalAmount)

	// The zone-less local-datetime form the backend emits.
	assert.Equal(t, 2026, sales[1].DateOfSale.Year())
	assert.Equal(t, model.StatusCancelled, sales[1].Status)

	// Missing totalAmount defaults to zero.
	assert.Equal(t, 0.0, sales[2].TotalAmount)
}

func TestHTTPSaleSource_ServerError(t *testing.T) {
	srv := jsonServer(t, http.StatusBadGateway, "")

	s := source.NewHTTPSaleSource(srv.URL, source.NewHTTPClient(time.Second))
	_, err := s.Sales(context.Background())
	assert.Error(t, err)
}
