package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// NewHTTPClient returns the shared HTTP client used by all sources.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// HTTPProductSource reads the product catalog from the storefront REST API.
type HTTPProductSource struct {
	url    string
	client *http.Client
}

// NewHTTPProductSource creates a product source for the given endpoint URL.
func NewHTTPProductSource(url string, client *http.Client) *HTTPProductSource {
	return &HTTPProductSource{url: url, client: client}
}

// productPayload tolerates the storefront's loose product schema: the name
// may arrive under either key and the stock quantity may be absent or null.
type productPayload struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ProductName   string `json:"productName"`
	StockQuantity *int64 `json:"stockQuantity"`
}

func (s *HTTPProductSource) Products(ctx context.Context) ([]model.Product, error) {
	var payload []productPayload
	if err := getJSON(ctx, s.client, s.url, &payload); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]model.Product, 0, len(payload))
	for _, p := range payload {
		name := p.Name
		if name == "" {
			name = p.ProductName
		}
		products = append(products, model.Product{
			ID:    p.ID,
			Name:  name,
			Stock: p.StockQuantity,
		})
	}
	return products, nil
}

// HTTPSaleSource reads the order history from the storefront REST API.
type HTTPSaleSource struct {
	url    string
	client *http.Client
}

// NewHTTPSaleSource creates a sale source for the given endpoint URL.
func NewHTTPSaleSource(url string, client *http.Client) *HTTPSaleSource {
	return &HTTPSaleSource{url: url, client: client}
}

type salePayload struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	DateOfSale  string  `json:"dateOfSale"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
}

func (s *HTTPSaleSource) Sales(ctx context.Context) ([]model.Sale, error) {
	var payload []salePayload
	if err := getJSON(ctx, s.client, s.url, &payload); err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}

	sales := make([]model.Sale, 0, len(payload))
	for _, p := range payload {
		date, err := parseSaleDate(p.DateOfSale)
		if err != nil {
			// A sale without a usable date cannot be bucketed or used for
			// recency; skip the record instead of failing the source.
			continue
		}
		sales = append(sales, model.Sale{
			ID:          p.ID,
			UserID:      p.UserID,
			DateOfSale:  date,
			Status:      model.SaleStatus(p.Status),
			TotalAmount: p.TotalAmount,
		})
	}
	return sales, nil
}

// parseSaleDate accepts RFC 3339 timestamps as well as the zone-less
// local-datetime form the storefront backend serializes.
func parseSaleDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}

// getJSON issues a GET request and decodes a 2xx JSON response into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
