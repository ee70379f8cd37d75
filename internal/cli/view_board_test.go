package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denifrahman/deni-crm/internal/domain"
)

func openBoard(t *testing.T, d *TestDriver) {
	t.Helper()
	d.PressKey('2')
	d.PressKey('b')
	require.Equal(t, ViewBoard, d.ActiveViewID())
}

func dealStage(d *TestDriver, id int64) domain.Stage {
	for _, deal := range d.State().DealCtrl.Records() {
		if deal.ID == id {
			return deal.Stage
		}
	}
	return ""
}

func TestTUI_BoardShowsColumnsInPipelineOrder(t *testing.T) {
	d := NewTestDriver(t, seededBackend())
	openBoard(t, d)

	view := d.View()
	assert.Contains(t, view, "Qualified")
	assert.Contains(t, view, "Proposal Send")
	assert.Contains(t, view, "Negotiation")
	assert.Contains(t, view, "Budi")
	assert.Contains(t, view, "Sari")
}

func TestTUI_BoardMoveAppliesBeforePersisting(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)
	openBoard(t, d)

	// Grab Budi in Qualified, drop one column to the right.
	d.PressEnter()
	d.PressKey('l')
	d.PressEnter()

	// The card moved immediately, before any write completed.
	assert.Equal(t, domain.StageProposalSend, dealStage(d, 10))
	assert.Empty(t, backend.savedDeals)

	// The queued write lands with the new stage.
	delivered := d.DeliverOutcomes(t)
	assert.Equal(t, 1, delivered)
	require.Len(t, backend.savedDeals, 1)
	assert.Equal(t, domain.StageProposalSend, backend.savedDeals[0].Stage)

	text, isErr := d.Toast()
	assert.False(t, isErr)
	assert.Contains(t, text, "Proposal Send")
}

func TestTUI_BoardDropOnOwnColumnIsNoop(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)
	openBoard(t, d)

	d.PressEnter()
	d.PressEnter()

	assert.Equal(t, domain.StageQualified, dealStage(d, 10))
	assert.Equal(t, 0, d.DeliverOutcomes(t))
	assert.Empty(t, backend.savedDeals)
}

func TestTUI_BoardEscCancelsGrab(t *testing.T) {
	d := NewTestDriver(t, seededBackend())
	openBoard(t, d)

	d.PressEnter()
	d.PressKey('l')
	d.PressEsc()

	// Still on the board, nothing moved.
	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, domain.StageQualified, dealStage(d, 10))
}

func TestTUI_BoardFailedWriteRollsBack(t *testing.T) {
	backend := seededBackend()
	backend.failWrites = true
	d := NewTestDriver(t, backend)
	openBoard(t, d)

	d.PressEnter()
	d.PressKey('l')
	d.PressEnter()
	assert.Equal(t, domain.StageProposalSend, dealStage(d, 10))

	require.Equal(t, 1, d.DeliverOutcomes(t))

	// The card snapped back to the stage the backend last confirmed.
	assert.Equal(t, domain.StageQualified, dealStage(d, 10))
	text, isErr := d.Toast()
	assert.True(t, isErr)
	assert.Contains(t, text, "write refused")
}

func TestTUI_BoardSharesStateWithDealList(t *testing.T) {
	backend := seededBackend()
	d := NewTestDriver(t, backend)
	openBoard(t, d)

	d.PressEnter()
	d.PressKey('l')
	d.PressEnter()

	// Back on the deal table, the moved card shows its new stage.
	d.PressEsc()
	require.Equal(t, ViewDealList, d.ActiveViewID())
	assert.Contains(t, d.View(), "Proposal Send")
}
