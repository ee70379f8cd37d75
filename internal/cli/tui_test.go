package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denifrahman/deni-crm/internal/domain"
)

func seededBackend() *fakeBackend {
	return &fakeBackend{
		transactions: []domain.Transaction{
			{ID: 1, CustomerName: "PT Maju Jaya", Total: 1500000, Date: "02/01/2025",
				Details: []domain.LineItem{{ID: 200, ProductName: "Fiber 50", Qty: 3, UnitPrice: 500000}}},
			{ID: 2, CustomerName: "CV Sentosa", Total: 250000, Date: "15/01/2025"},
		},
		deals: []domain.Deal{
			{ID: 10, Name: "Budi", Company: "PT Maju Jaya", Stage: domain.StageQualified,
				Items: []domain.LineItem{{ID: 100, ProductName: "Fiber 50", Qty: 5, UnitPrice: 5000}}},
			{ID: 11, Name: "Sari", Company: "CV Sentosa", Stage: domain.StageNegotiation,
				Items: []domain.LineItem{{ID: 101, ProductName: "Fiber 100", Qty: 1, UnitPrice: 300000, Approval: true}}},
		},
		products: []domain.Product{
			{ID: 20, Name: "Fiber 50", Duration: 12, Speed: "50 Mbps", HPP: 100000, Margin: 33, Price: 133000, Status: "pending"},
		},
	}
}

func TestTUI_HomeListLoadsOnStartup(t *testing.T) {
	d := NewTestDriver(t, seededBackend())

	assert.Equal(t, ViewTransactionList, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())

	view := d.View()
	assert.Contains(t, view, "PT Maju Jaya")
	assert.Contains(t, view, "Rp 1.500.000")
}

func TestTUI_SwitchBetweenLists(t *testing.T) {
	d := NewTestDriver(t, seededBackend())

	d.PressKey('2')
	assert.Equal(t, ViewDealList, d.ActiveViewID())
	assert.Contains(t, d.View(), "Budi")

	d.PressKey('3')
	assert.Equal(t, ViewProductList, d.ActiveViewID())
	assert.Contains(t, d.View(), "Fiber 50")

	d.PressKey('1')
	assert.Equal(t, ViewTransactionList, d.ActiveViewID())
}

func TestTUI_QuitKeys(t *testing.T) {
	d := NewTestDriver(t, seededBackend())
	d.PressKey('q')
	assert.True(t, d.appModel().quitting)

	d = NewTestDriver(t, seededBackend())
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, d.appModel().quitting)
}

func TestTUI_PaginationForLargeCount(t *testing.T) {
	backend := seededBackend()
	backend.count = 23
	d := NewTestDriver(t, backend)

	view := d.View()
	assert.Contains(t, view, "[1]")
	assert.Contains(t, view, "3")
	assert.Contains(t, view, "23 records")
}

func TestTUI_PageKeysRefetch(t *testing.T) {
	backend := seededBackend()
	backend.count = 23
	d := NewTestDriver(t, backend)

	d.PressKey('l')
	assert.Equal(t, 2, backend.lastFilter.Page)

	d.PressKey('h')
	assert.Equal(t, 1, backend.lastFilter.Page)
}

func TestTUI_SearchCommitsAfterDebounce(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)

	d.PressKey('/')
	d.Type("maju")

	// The debounce tick has not fired yet, so no search was sent.
	assert.Empty(t, backend.lastFilter.Search)

	// A stale generation from an earlier keystroke is ignored.
	d.Send(searchDebounceMsg{id: ViewTransactionList, gen: 2})
	assert.Empty(t, backend.lastFilter.Search)

	// The latest generation commits the term and resets to page 1.
	d.Send(searchDebounceMsg{id: ViewTransactionList, gen: 4})
	assert.Equal(t, "maju", backend.lastFilter.Search)
	assert.Equal(t, 1, backend.lastFilter.Page)
}

func TestTUI_SearchEditKeepsOnlyLatestGeneration(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)

	d.PressKey('/')
	d.Type("ab")
	d.PressBackspace()
	d.Type("cd")

	// Five edits happened; only generation 5 may commit.
	d.Send(searchDebounceMsg{id: ViewTransactionList, gen: 4})
	assert.Empty(t, backend.lastFilter.Search)

	d.Send(searchDebounceMsg{id: ViewTransactionList, gen: 5})
	assert.Equal(t, "acd", backend.lastFilter.Search)
}

func TestTUI_NewDealFormDefaults(t *testing.T) {
	d := NewTestDriver(t, seededBackend())

	d.PressKey('2')
	d.PressKey('n')
	require.Equal(t, ViewDealForm, d.ActiveViewID())

	view := d.View()
	assert.Contains(t, view, "Qualified")
	assert.Contains(t, view, "Rp 0")
}

func TestTUI_DealFormShowsLiveTotal(t *testing.T) {
	d := NewTestDriver(t, seededBackend())

	d.PressKey('2')
	d.PressEnter() // edit first deal: 5 × Rp 5.000

	require.Equal(t, ViewDealForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "Rp 25.000")
}

func TestTUI_DealFormSaveRoundTrip(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)

	d.PressKey('2')
	d.PressEnter()
	require.Equal(t, ViewDealForm, d.ActiveViewID())

	d.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	// The form popped and the save went through the deal write path.
	assert.Equal(t, ViewDealList, d.ActiveViewID())
	require.Len(t, backend.savedDeals, 1)
	assert.Equal(t, "Budi", backend.savedDeals[0].Name)

	text, isErr := d.Toast()
	assert.False(t, isErr)
	assert.Contains(t, text, "deal saved")
}

func TestTUI_DealFormRejectsEmptyName(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)

	d.PressKey('2')
	d.PressKey('n')
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	// Still on the form, nothing written.
	assert.Equal(t, ViewDealForm, d.ActiveViewID())
	assert.Empty(t, backend.savedDeals)
	assert.Contains(t, d.View(), "name is required")
}

func TestTUI_DealFormKeepsLastItem(t *testing.T) {
	d := NewTestDriver(t, seededBackend())

	d.PressKey('2')
	d.PressKey('n')
	require.Equal(t, ViewDealForm, d.ActiveViewID())

	// Focus the single item row, then try to remove it.
	for i := 0; i < dealHeadFields; i++ {
		d.PressTab()
	}
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlD})

	assert.Contains(t, d.View(), "at least one item")
}

func TestTUI_DealFormCurrencyNormalizesPerKeystroke(t *testing.T) {
	d := NewTestDriver(t, seededBackend())

	d.PressKey('2')
	d.PressKey('n')

	// Move to the price input of the blank item row.
	for i := 0; i < dealHeadFields+2; i++ {
		d.PressTab()
	}
	d.Type("15000")

	assert.Contains(t, d.View(), "Rp 15.000")
}

func TestTUI_StaleFailedFetchDoesNotPaintError(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)

	// Startup issued fetch 1; the refresh issues and applies fetch 2.
	d.PressKey('r')

	// Fetch 1 errors late. It was superseded, so the fresh page stays
	// clean and no error line appears.
	d.Send(recordsLoadedMsg[domain.Transaction]{seq: 1, err: assert.AnError})

	view := d.View()
	assert.NotContains(t, view, "Error:")
	assert.Contains(t, view, "PT Maju Jaya")
}

func TestTUI_FailedListFetchKeepsToast(t *testing.T) {
	backend := seededBackend()
	backend.listErr = assert.AnError
	d := NewTestDriver(t, backend)

	assert.Contains(t, d.View(), "Error:")
}
