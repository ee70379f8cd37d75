package domain

// RecordKind identifies which backend collection a record belongs to.
type RecordKind string

const (
	KindTransaction RecordKind = "transactions"
	KindDeal        RecordKind = "deals"
	KindProduct     RecordKind = "products"
)

// Stage is a deal's position in the sales pipeline.
type Stage string

const (
	StageQualified    Stage = "qualified"
	StageProposalSend Stage = "proposal_send"
	StageNegotiation  Stage = "negotiation"
	StageWon          Stage = "won"
	StageLost         Stage = "lost"
	StageDone         Stage = "done"
)

// Stages lists all pipeline stages in board column order.
var Stages = []Stage{
	StageQualified,
	StageProposalSend,
	StageNegotiation,
	StageWon,
	StageLost,
	StageDone,
}

// ValidStages is the canonical set of accepted stage strings.
var ValidStages = map[Stage]bool{
	StageQualified:    true,
	StageProposalSend: true,
	StageNegotiation:  true,
	StageWon:          true,
	StageLost:         true,
	StageDone:         true,
}

// ParseStage returns the Stage for s, or false if s is not a pipeline stage.
func ParseStage(s string) (Stage, bool) {
	st := Stage(s)
	if !ValidStages[st] {
		return "", false
	}
	return st, true
}

// Intent identifies which backend operation a submitted form is for.
type Intent string

const (
	IntentSave    Intent = "save"
	IntentApprove Intent = "approve"
	IntentAdvance Intent = "process_order"
)
