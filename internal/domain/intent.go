package domain

// FormIntent is the tagged output of a record form submission.
// The owning layer switches exhaustively on the concrete type to pick the
// write endpoint; the form itself never performs a network call.
type FormIntent interface {
	Intent() Intent
}

// SaveRecord is a plain create-or-update of the edited record.
type SaveRecord struct{}

func (SaveRecord) Intent() Intent { return IntentSave }

// ApproveLine grants the approval gate on a single deal line. The line id
// is captured at click time so the write targets exactly that line.
type ApproveLine struct {
	DealItemID int64
	Approved   bool
}

func (ApproveLine) Intent() Intent { return IntentApprove }

// AdvanceToFulfillment converts a deal into an order at the given location.
type AdvanceToFulfillment struct {
	DealID   int64
	Location string
}

func (AdvanceToFulfillment) Intent() Intent { return IntentAdvance }
