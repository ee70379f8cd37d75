package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/denifrahman/deni-crm/internal/domain"
)

// dealRecord is the backend's deal shape on reads. Stage arrives as
// status_deal; line items may carry the product name nested or flat.
type dealRecord struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Company   string         `json:"company"`
	Status    string         `json:"status_deal"`
	Address   string         `json:"address"`
	Needs     string         `json:"needs"`
	Items     []dealItemWire `json:"items"`
	CreatedAt string         `json:"created_at"`
}

type dealItemWire struct {
	ID          int64  `json:"id"`
	DetailID    int64  `json:"deal_item_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Product     *struct {
		Name string `json:"name"`
	} `json:"product"`
	Qty      int   `json:"qty"`
	Price    int64 `json:"price"`
	Approval bool  `json:"approval"`
	Approved bool  `json:"approved"`
}

func (w dealItemWire) toDomain() domain.LineItem {
	name := w.ProductName
	if name == "" && w.Product != nil {
		name = w.Product.Name
	}
	return domain.LineItem{
		ID:          w.ID,
		DetailID:    w.DetailID,
		ProductID:   w.ProductID,
		ProductName: name,
		Qty:         w.Qty,
		UnitPrice:   w.Price,
		Approval:    w.Approval,
		Approved:    w.Approved,
	}
}

func (r dealRecord) toDomain() domain.Deal {
	stage, ok := domain.ParseStage(r.Status)
	if !ok {
		stage = domain.StageQualified
	}
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.toDomain())
	}
	return domain.Deal{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Stage:   stage,
		Address: r.Address,
		Needs:   r.Needs,
		Date:    displayDate(r.CreatedAt),
		Items:   items,
	}
}

// dealPayload is the deal shape on writes: stage goes out as status.
type dealPayload struct {
	ID      int64             `json:"id"`
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Phone   string            `json:"phone"`
	Company string            `json:"company"`
	Status  string            `json:"status"`
	Address string            `json:"address"`
	Needs   string            `json:"needs"`
	Items   []dealItemPayload `json:"items"`
}

type dealItemPayload struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
	Price     int64 `json:"price"`
	Approval  bool  `json:"approval"`
	Approved  bool  `json:"approved"`
}

func toDealPayload(d domain.Deal) dealPayload {
	items := make([]dealItemPayload, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, dealItemPayload{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			Price:     it.UnitPrice,
			Approval:  it.Approval,
			Approved:  it.Approved,
		})
	}
	return dealPayload{
		ID:      d.ID,
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
		Company: d.Company,
		Status:  string(d.Stage),
		Address: d.Address,
		Needs:   d.Needs,
		Items:   items,
	}
}

// ListDeals fetches one page of deals matching the filter.
func (c *Client) ListDeals(ctx context.Context, f domain.Filter) (ListResult[domain.Deal], error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/v1/deals", filterQuery(f), nil, &env); err != nil {
		return ListResult[domain.Deal]{}, err
	}

	var raw []dealRecord
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return ListResult[domain.Deal]{}, fmt.Errorf("decoding deals: %w", err)
		}
	}
	deals := make([]domain.Deal, 0, len(raw))
	for _, r := range raw {
		deals = append(deals, r.toDomain())
	}
	return ListResult[domain.Deal]{Records: deals, Count: env.count()}, nil
}

// SaveDeal creates the deal when it has no id, otherwise updates it.
// Returns the upstream confirmation message.
func (c *Client) SaveDeal(ctx context.Context, d domain.Deal) (string, error) {
	var ack writeAck
	payload := toDealPayload(d)
	if d.ID == 0 {
		if err := c.do(ctx, http.MethodPost, "/v1/deals", nil, payload, &ack); err != nil {
			return "", err
		}
	} else {
		path := fmt.Sprintf("/v1/deals/%d", d.ID)
		if err := c.do(ctx, http.MethodPut, path, nil, payload, &ack); err != nil {
			return "", err
		}
	}
	return ack.Data, nil
}

// ApproveDealItem grants or revokes approval on a single deal line.
func (c *Client) ApproveDealItem(ctx context.Context, dealItemID int64, approved bool) (string, error) {
	var ack writeAck
	path := fmt.Sprintf("/v1/deals/approve/%d", dealItemID)
	body := map[string]bool{"approved": approved}
	if err := c.do(ctx, http.MethodPut, path, nil, body, &ack); err != nil {
		return "", err
	}
	return ack.Data, nil
}

// CreateOrder advances a deal to fulfillment at the given location.
func (c *Client) CreateOrder(ctx context.Context, dealID int64, location string) (string, error) {
	var ack writeAck
	body := map[string]any{"deal_id": dealID, "location": location}
	if err := c.do(ctx, http.MethodPost, "/v1/orders", nil, body, &ack); err != nil {
		return "", err
	}
	return ack.Data, nil
}
