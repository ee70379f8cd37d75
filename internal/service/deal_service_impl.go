package service

import (
	"context"
	"fmt"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/domain"
)

type dealService struct {
	backend Backend
}

func NewDealService(backend Backend) DealService {
	return &dealService{backend: backend}
}

func (s *dealService) List(ctx context.Context, f domain.Filter) (api.ListResult[domain.Deal], error) {
	return s.backend.ListDeals(ctx, f)
}

// Dispatch matches the form's intent tag exhaustively: a plain save, a
// single-line approval, or advancement to fulfillment. The form only
// produces the tag; all routing lives here.
func (s *dealService) Dispatch(ctx context.Context, d domain.Deal, intent domain.FormIntent) (string, error) {
	switch it := intent.(type) {
	case domain.SaveRecord:
		return s.backend.SaveDeal(ctx, d)
	case domain.ApproveLine:
		return s.backend.ApproveDealItem(ctx, it.DealItemID, it.Approved)
	case domain.AdvanceToFulfillment:
		return s.backend.CreateOrder(ctx, it.DealID, it.Location)
	default:
		return "", fmt.Errorf("unhandled form intent %q", intent.Intent())
	}
}

func (s *dealService) PersistStage(ctx context.Context, d domain.Deal) error {
	_, err := s.backend.SaveDeal(ctx, d)
	return err
}
