package cli

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/config"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/flush"
	"github.com/denifrahman/deni-crm/internal/service"
	"github.com/denifrahman/deni-crm/internal/teatest"
)

// fakeBackend implements service.Backend in memory and records every
// write and the last listing filter for assertions.
type fakeBackend struct {
	mu sync.Mutex

	transactions []domain.Transaction
	deals        []domain.Deal
	products     []domain.Product
	count        int

	lastFilter domain.Filter

	savedDeals        []domain.Deal
	savedTransactions []domain.Transaction
	savedProducts     []domain.Product
	approvedItems     []int64
	orders            []string

	failWrites bool
	listErr    error
}

func (f *fakeBackend) ListTransactions(ctx context.Context, flt domain.Filter) (api.ListResult[domain.Transaction], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = flt
	if f.listErr != nil {
		return api.ListResult[domain.Transaction]{}, f.listErr
	}
	return api.ListResult[domain.Transaction]{Records: f.transactions, Count: f.countOr(len(f.transactions))}, nil
}

func (f *fakeBackend) ListDeals(ctx context.Context, flt domain.Filter) (api.ListResult[domain.Deal], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = flt
	if f.listErr != nil {
		return api.ListResult[domain.Deal]{}, f.listErr
	}
	records := make([]domain.Deal, len(f.deals))
	copy(records, f.deals)
	return api.ListResult[domain.Deal]{Records: records, Count: f.countOr(len(f.deals))}, nil
}

func (f *fakeBackend) ListProducts(ctx context.Context, flt domain.Filter) (api.ListResult[domain.Product], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = flt
	if f.listErr != nil {
		return api.ListResult[domain.Product]{}, f.listErr
	}
	return api.ListResult[domain.Product]{Records: f.products, Count: f.countOr(len(f.products))}, nil
}

func (f *fakeBackend) countOr(n int) int {
	if f.count > 0 {
		return f.count
	}
	return n
}

func (f *fakeBackend) SaveTransaction(ctx context.Context, tx domain.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return "", fmt.Errorf("write refused")
	}
	f.savedTransactions = append(f.savedTransactions, tx)
	return "transaction saved", nil
}

func (f *fakeBackend) SaveDeal(ctx context.Context, d domain.Deal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return "", fmt.Errorf("write refused")
	}
	f.savedDeals = append(f.savedDeals, d)
	return "deal saved", nil
}

func (f *fakeBackend) SaveProduct(ctx context.Context, p domain.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return "", fmt.Errorf("write refused")
	}
	f.savedProducts = append(f.savedProducts, p)
	return "product saved", nil
}

func (f *fakeBackend) ApproveDealItem(ctx context.Context, dealItemID int64, approved bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return "", fmt.Errorf("write refused")
	}
	f.approvedItems = append(f.approvedItems, dealItemID)
	return "item approved", nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, dealID int64, location string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return "", fmt.Errorf("write refused")
	}
	f.orders = append(f.orders, fmt.Sprintf("%d@%s", dealID, location))
	return "order created", nil
}

func (f *fakeBackend) Export(ctx context.Context, kind domain.RecordKind, flt domain.Filter) ([]byte, error) {
	return []byte("spreadsheet"), nil
}

// outcomeLog collects flush outcomes for explicit delivery. Tests cannot
// use the App's channel: the driver executes the blocking channel-read Cmd
// in a goroutine that would steal outcomes nondeterministically.
type outcomeLog struct {
	mu       sync.Mutex
	outcomes []flush.Outcome
}

func (l *outcomeLog) add(o flush.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, o)
}

func (l *outcomeLog) drain() []flush.Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.outcomes
	l.outcomes = nil
	return out
}

// TestDriver wraps teatest.Driver with inspection of appModel internals.
type TestDriver struct {
	*teatest.Driver
	App     *App
	Backend *fakeBackend

	log *outcomeLog
}

// NewTestDriver builds an App over the fake backend with a fast flush
// queue, constructs the root model, sets the terminal size, and drains
// Init (which loads the home list).
func NewTestDriver(t *testing.T, backend *fakeBackend) *TestDriver {
	t.Helper()

	dealSvc := service.NewDealService(backend)
	app := &App{
		Transactions: service.NewTransactionService(backend),
		Deals:        dealSvc,
		Products:     service.NewProductService(backend),
		Exports:      service.NewExportService(backend),
		Cfg:          config.DefaultConfig(),
	}
	log := &outcomeLog{}
	app.Queue = flush.New(dealSvc, time.Millisecond, 4, log.add)

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, App: app, Backend: backend, log: log}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Toast returns the current toast line.
func (d *TestDriver) Toast() (string, bool) {
	m := d.appModel()
	return m.toastText, m.toastErr
}

// DeliverOutcomes flushes the queue and feeds every completed outcome
// through the model, as the rearming channel read would at runtime.
func (d *TestDriver) DeliverOutcomes(t *testing.T) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.App.Queue.Flush(ctx); err != nil {
		t.Fatalf("flushing queue: %v", err)
	}

	outcomes := d.log.drain()
	for _, o := range outcomes {
		d.Send(flushOutcomeMsg{outcome: o})
	}
	return len(outcomes)
}
