// Package board holds the kanban core for the deal pipeline: partitioning
// loaded deals into stage columns and applying optimistic stage moves.
package board

import "github.com/denifrahman/deni-crm/internal/domain"

// Column is one pipeline stage and the deals currently in it.
type Column struct {
	Stage domain.Stage
	Deals []domain.Deal
}

// Group partitions deals into columns, one per pipeline stage in fixed
// order. Every loaded deal lands in exactly one column.
func Group(deals []domain.Deal) []Column {
	byStage := make(map[domain.Stage][]domain.Deal, len(domain.Stages))
	for _, d := range deals {
		byStage[d.Stage] = append(byStage[d.Stage], d)
	}

	cols := make([]Column, 0, len(domain.Stages))
	for _, s := range domain.Stages {
		cols = append(cols, Column{Stage: s, Deals: byStage[s]})
	}
	return cols
}

// Move reassigns one deal's stage in place and reports the stage it held
// before, so the caller can enqueue persistence and roll back on failure.
// A target that is not a pipeline stage, or an id that is not loaded, is
// rejected without touching anything.
func Move(deals []domain.Deal, id int64, target domain.Stage) (prior domain.Stage, moved bool) {
	if !domain.ValidStages[target] {
		return "", false
	}
	for i := range deals {
		if deals[i].ID != id {
			continue
		}
		prior = deals[i].Stage
		deals[i].Stage = target
		return prior, true
	}
	return "", false
}
