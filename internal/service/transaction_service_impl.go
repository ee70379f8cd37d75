package service

import (
	"context"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/domain"
)

type transactionService struct {
	backend Backend
}

func NewTransactionService(backend Backend) TransactionService {
	return &transactionService{backend: backend}
}

func (s *transactionService) List(ctx context.Context, f domain.Filter) (api.ListResult[domain.Transaction], error) {
	return s.backend.ListTransactions(ctx, f)
}

func (s *transactionService) Save(ctx context.Context, tx domain.Transaction) (string, error) {
	return s.backend.SaveTransaction(ctx, tx)
}
