package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records which endpoint each call reached.
type fakeBackend struct {
	lastOp    string
	savedDeal domain.Deal
	exportErr error
}

func (b *fakeBackend) ListTransactions(context.Context, domain.Filter) (api.ListResult[domain.Transaction], error) {
	b.lastOp = "list_transactions"
	return api.ListResult[domain.Transaction]{}, nil
}

func (b *fakeBackend) ListDeals(context.Context, domain.Filter) (api.ListResult[domain.Deal], error) {
	b.lastOp = "list_deals"
	return api.ListResult[domain.Deal]{}, nil
}

func (b *fakeBackend) ListProducts(context.Context, domain.Filter) (api.ListResult[domain.Product], error) {
	b.lastOp = "list_products"
	return api.ListResult[domain.Product]{}, nil
}

func (b *fakeBackend) SaveTransaction(context.Context, domain.Transaction) (string, error) {
	b.lastOp = "save_transaction"
	return "saved", nil
}

func (b *fakeBackend) SaveDeal(_ context.Context, d domain.Deal) (string, error) {
	b.lastOp = "save_deal"
	b.savedDeal = d
	return "deal saved", nil
}

func (b *fakeBackend) SaveProduct(context.Context, domain.Product) (string, error) {
	b.lastOp = "save_product"
	return "saved", nil
}

func (b *fakeBackend) ApproveDealItem(_ context.Context, id int64, approved bool) (string, error) {
	b.lastOp = "approve"
	return "approved", nil
}

func (b *fakeBackend) CreateOrder(_ context.Context, dealID int64, location string) (string, error) {
	b.lastOp = "create_order"
	return "order created", nil
}

func (b *fakeBackend) Export(context.Context, domain.RecordKind, domain.Filter) ([]byte, error) {
	b.lastOp = "export"
	if b.exportErr != nil {
		return nil, b.exportErr
	}
	return []byte("xlsx-bytes"), nil
}

func TestDealService_DispatchRoutesByIntent(t *testing.T) {
	ctx := context.Background()
	deal := domain.Deal{ID: 7, Name: "PT Maju"}

	tests := []struct {
		name    string
		intent  domain.FormIntent
		wantOp  string
		wantMsg string
	}{
		{"save", domain.SaveRecord{}, "save_deal", "deal saved"},
		{"approve", domain.ApproveLine{DealItemID: 42, Approved: true}, "approve", "approved"},
		{"advance", domain.AdvanceToFulfillment{DealID: 7, Location: "Jl. Sudirman"}, "create_order", "order created"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			svc := NewDealService(backend)

			msg, err := svc.Dispatch(ctx, deal, tt.intent)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOp, backend.lastOp)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestDealService_SaveNeverHitsApprovalOrOrderEndpoints(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewDealService(backend)

	_, err := svc.Dispatch(context.Background(), domain.Deal{}, domain.SaveRecord{})
	require.NoError(t, err)
	assert.Equal(t, "save_deal", backend.lastOp)
}

func TestDealService_PersistStageSendsCurrentStage(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewDealService(backend)

	err := svc.PersistStage(context.Background(), domain.Deal{ID: 7, Stage: domain.StageWon})
	require.NoError(t, err)
	assert.Equal(t, "save_deal", backend.lastOp)
	assert.Equal(t, domain.StageWon, backend.savedDeal.Stage)
}

func TestExportService_WritesTimestampedFile(t *testing.T) {
	backend := &fakeBackend{}
	svc := &exportService{
		backend: backend,
		now:     func() time.Time { return time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC) },
	}

	dir := t.TempDir()
	path, err := svc.Download(context.Background(), domain.KindDeal, domain.NewFilter(10), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "deals_2025-06-01T10:30:00.000Z.xlsx"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx-bytes", string(data))
}

func TestExportService_PropagatesBackendFailure(t *testing.T) {
	boom := errors.New("boom")
	backend := &fakeBackend{exportErr: boom}
	svc := NewExportService(backend)

	_, err := svc.Download(context.Background(), domain.KindDeal, domain.NewFilter(10), t.TempDir())
	assert.ErrorIs(t, err, boom)

	entries, readErr := os.ReadDir(t.TempDir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no file written on failure")
}
