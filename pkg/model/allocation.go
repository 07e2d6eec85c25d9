package model

import "encoding/json"

// AllocationExplain is the allocation-explain snapshot. The deciders list
// varies too much across versions to type; it stays raw.
type AllocationExplain struct {
	Index               string          `json:"index,omitempty"`
	Shard               int             `json:"shard"`
	Primary             bool            `json:"primary"`
	CurrentState        string          `json:"current_state,omitempty"`
	AllocateExplanation string          `json:"allocate_explanation,omitempty"`
	UnassignedInfo      json.RawMessage `json:"unassigned_info,omitempty"`
	NodeDecisions       json.RawMessage `json:"node_allocation_decisions,omitempty"`
}
