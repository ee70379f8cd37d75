package api

import "encoding/json"

// ListResult is the canonical listing shape every kind normalizes to.
// View logic never sees the backend's per-kind count placement.
type ListResult[T any] struct {
	Records []T
	Count   int
}

// listEnvelope captures the raw listing response. The count lives under
// meta_data for transactions and at the top level for deals and products;
// both fields are read defensively and the adapter picks whichever is set.
type listEnvelope struct {
	Data     json.RawMessage `json:"data"`
	Count    int             `json:"count"`
	MetaData *struct {
		Count int `json:"count"`
	} `json:"meta_data"`
}

func (e listEnvelope) count() int {
	if e.MetaData != nil {
		return e.MetaData.Count
	}
	return e.Count
}
