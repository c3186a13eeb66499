package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StockClient answers the synchronous stock question the reservation
// protocol asks before committing an order.
type StockClient interface {
	GetStock(ctx context.Context, itemID uint32) (uint32, error)
}

// CatalogClient queries the catalog service over HTTP.
type CatalogClient struct {
	host   string
	client *http.Client
}

// NewCatalogClient builds a client for the catalog service at host, e.g.
// "http://localhost:3000".
func NewCatalogClient(host string) *CatalogClient {
	return &CatalogClient{
		host:   host,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// GetStock fetches the current stock level for itemID. Any transport
// failure, non-2xx status, or unparsable body is returned as an error; the
// caller treats them all as the catalog being unreachable.
func (c *CatalogClient) GetStock(ctx context.Context, itemID uint32) (uint32, error) {
	url := fmt.Sprintf("%s/catalog/stock/%d", c.host, itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build stock request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("stock request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("catalog returned status %d for item %d", resp.StatusCode, itemID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read stock response: %w", err)
	}

	var stock uint32
	if err := json.Unmarshal(body, &stock); err != nil {
		return 0, fmt.Errorf("failed to decode stock response %q: %w", body, err)
	}
	return stock, nil
}
