package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/denifrahman/deni-crm/internal/domain"
)

// transactionRecord is the backend's nested transaction listing shape:
// scalar fields under "transaction", line items alongside it.
type transactionRecord struct {
	Transaction struct {
		ID           int64  `json:"transaction_id"`
		CustomerName string `json:"customer_name"`
		Total        int64  `json:"total"`
		Date         string `json:"transaction_date"`
	} `json:"transaction"`
	Details []transactionItemWire `json:"detail_transactions"`
}

// transactionItemWire names quantity and unit_price in full, unlike deal
// items which abbreviate both.
type transactionItemWire struct {
	DetailID      int64  `json:"detail_id"`
	TransactionID int64  `json:"transaction_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
}

func (r transactionRecord) toDomain() domain.Transaction {
	details := make([]domain.LineItem, 0, len(r.Details))
	for _, d := range r.Details {
		details = append(details, domain.LineItem{
			DetailID:    d.DetailID,
			ProductName: d.ProductName,
			Qty:         d.Quantity,
			UnitPrice:   d.UnitPrice,
		})
	}
	return domain.Transaction{
		ID:           r.Transaction.ID,
		CustomerName: r.Transaction.CustomerName,
		Total:        r.Transaction.Total,
		Date:         displayDate(r.Transaction.Date),
		Details:      details,
	}
}

type transactionPayload struct {
	CustomerName string                   `json:"customerName"`
	Details      []transactionItemPayload `json:"details"`
}

type transactionItemPayload struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// ListTransactions fetches one page of transactions matching the filter.
func (c *Client) ListTransactions(ctx context.Context, f domain.Filter) (ListResult[domain.Transaction], error) {
	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/v1/transactions", filterQuery(f), nil, &env); err != nil {
		return ListResult[domain.Transaction]{}, err
	}

	var raw []transactionRecord
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return ListResult[domain.Transaction]{}, fmt.Errorf("decoding transactions: %w", err)
		}
	}
	txs := make([]domain.Transaction, 0, len(raw))
	for _, r := range raw {
		txs = append(txs, r.toDomain())
	}
	return ListResult[domain.Transaction]{Records: txs, Count: env.count()}, nil
}

// SaveTransaction creates the transaction when it has no id, otherwise
// updates it. Returns the upstream confirmation message.
func (c *Client) SaveTransaction(ctx context.Context, tx domain.Transaction) (string, error) {
	payload := transactionPayload{CustomerName: tx.CustomerName}
	for _, d := range tx.Details {
		payload.Details = append(payload.Details, transactionItemPayload{
			ProductName: d.ProductName,
			Quantity:    d.Qty,
			UnitPrice:   d.UnitPrice,
		})
	}

	var ack writeAck
	if tx.ID == 0 {
		if err := c.do(ctx, http.MethodPost, "/v1/transactions", nil, payload, &ack); err != nil {
			return "", err
		}
	} else {
		path := fmt.Sprintf("/v1/transactions/%d", tx.ID)
		if err := c.do(ctx, http.MethodPut, path, nil, payload, &ack); err != nil {
			return "", err
		}
	}
	return ack.Data, nil
}

// displayDate renders a backend timestamp as an id-ID date (dd/mm/yyyy).
// Unparseable input is shown as-is rather than dropped.
func displayDate(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}
