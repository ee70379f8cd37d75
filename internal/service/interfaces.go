package service

import (
	"context"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/domain"
)

// Backend is the slice of the API client the services depend on.
type Backend interface {
	ListTransactions(ctx context.Context, f domain.Filter) (api.ListResult[domain.Transaction], error)
	ListDeals(ctx context.Context, f domain.Filter) (api.ListResult[domain.Deal], error)
	ListProducts(ctx context.Context, f domain.Filter) (api.ListResult[domain.Product], error)
	SaveTransaction(ctx context.Context, tx domain.Transaction) (string, error)
	SaveDeal(ctx context.Context, d domain.Deal) (string, error)
	SaveProduct(ctx context.Context, p domain.Product) (string, error)
	ApproveDealItem(ctx context.Context, dealItemID int64, approved bool) (string, error)
	CreateOrder(ctx context.Context, dealID int64, location string) (string, error)
	Export(ctx context.Context, kind domain.RecordKind, f domain.Filter) ([]byte, error)
}

type TransactionService interface {
	List(ctx context.Context, f domain.Filter) (api.ListResult[domain.Transaction], error)
	Save(ctx context.Context, tx domain.Transaction) (string, error)
}

type DealService interface {
	List(ctx context.Context, f domain.Filter) (api.ListResult[domain.Deal], error)
	// Dispatch routes a submitted deal form by its intent tag.
	Dispatch(ctx context.Context, d domain.Deal, intent domain.FormIntent) (string, error)
	// PersistStage saves a deal after an optimistic board move.
	PersistStage(ctx context.Context, d domain.Deal) error
}

type ProductService interface {
	List(ctx context.Context, f domain.Filter) (api.ListResult[domain.Product], error)
	Save(ctx context.Context, p domain.Product) (string, error)
}

type ExportService interface {
	// Download fetches the filtered export and writes it to dir,
	// returning the written file's path.
	Download(ctx context.Context, kind domain.RecordKind, f domain.Filter, dir string) (string, error)
}
