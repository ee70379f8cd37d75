package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/denifrahman/deni-crm/internal/domain"
)

type productRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Duration  int    `json:"duration"`
	Speed     string `json:"speed"`
	HPP       int64  `json:"hpp"`
	Margin    int64  `json:"margin"`
	Status    string `json:"status"`
	Price     int64  `json:"price"`
	CreatedAt string `json:"created_at"`
}

func (r productRecord) toDomain() domain.Product {
	return domain.Product{
		ID:       r.ID,
		Name:     r.Name,
		Duration: r.Duration,
		Speed:    r.Speed,
		HPP:      r.HPP,
		Margin:   r.Margin,
		Status:   r.Status,
		Price:    r.Price,
		Date:     displayDate(r.CreatedAt),
	}
}

type productPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Speed    string `json:"speed"`
	HPP      int64  `json:"hpp"`
	Margin   int64  `json:"margin"`
	Status   string `json:"status"`
	Price    int64  `json:"price"`
}

// ListProducts fetches one page of products matching the filter.
func (c *Client) ListProducts(ctx context.Context, f domain.Filter) (ListResult[domain.Product], error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/v1/products", filterQuery(f), nil, &env); err != nil {
		return ListResult[domain.Product]{}, err
	}

	var raw []productRecord
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return ListResult[domain.Product]{}, fmt.Errorf("decoding products: %w", err)
		}
	}
	products := make([]domain.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, r.toDomain())
	}
	return ListResult[domain.Product]{Records: products, Count: env.count()}, nil
}

// SaveProduct creates or updates a product. An existing product saved with
// status "qualified" routes to the process endpoint instead of a plain
// update; the backend owns the semantics of that transition.
func (c *Client) SaveProduct(ctx context.Context, p domain.Product) (string, error) {
	payload := productPayload{
		ID:       p.ID,
		Name:     p.Name,
		Duration: p.Duration,
		Speed:    p.Speed,
		HPP:      p.HPP,
		Margin:   p.Margin,
		Status:   p.Status,
		Price:    p.Price,
	}

	var ack writeAck
	switch {
	case p.ID == 0:
		if err := c.do(ctx, http.MethodPost, "/v1/products", nil, payload, &ack); err != nil {
			return "", err
		}
	case p.Status == string(domain.StageQualified):
		path := fmt.Sprintf("/v1/products/process/%d", p.ID)
		if err := c.do(ctx, http.MethodPost, path, nil, payload, &ack); err != nil {
			return "", err
		}
	default:
		path := fmt.Sprintf("/v1/products/%d", p.ID)
		if err := c.do(ctx, http.MethodPut, path, nil, payload, &ack); err != nil {
			return "", err
		}
	}
	return ack.Data, nil
}

// Export downloads the filtered spreadsheet export for a record kind.
// The payload is relayed verbatim; the caller decides where it lands.
func (c *Client) Export(ctx context.Context, kind domain.RecordKind, f domain.Filter) ([]byte, error) {
	path := fmt.Sprintf("/v1/%s/export", kind)
	return c.doRaw(ctx, http.MethodGet, path, filterQuery(f))
}
