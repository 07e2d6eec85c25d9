package model

import "encoding/json"

// Bundle is the set of diagnostic records produced by one ingestion attempt.
// Every field is independently optional; presence depends solely on which
// filenames were found in the source archive. Shards defaults to an empty
// slice rather than nil so table views can render without a presence check.
type Bundle struct {
	Errors     *IlmExplain                `json:"errors,omitempty"`
	Policies   map[string]json.RawMessage `json:"policies,omitempty"`
	Version    *ClusterVersion            `json:"version,omitempty"`
	Shards     []Shard                    `json:"shards"`
	Allocation *AllocationExplain         `json:"allocation,omitempty"`
	Settings   map[string]json.RawMessage `json:"settings,omitempty"`
	NodesStats *NodesStats                `json:"nodesStats,omitempty"`
	Pipelines  map[string]json.RawMessage `json:"pipelines,omitempty"`
}

// NewBundle returns an empty bundle with the shards default applied.
func NewBundle() Bundle {
	return Bundle{Shards: []Shard{}}
}

// FieldNames lists the populated fields in the bundle's fixed order.
func (b Bundle) FieldNames() []string {
	var out []string
	if b.Errors != nil {
		out = append(out, "errors")
	}
	if b.Policies != nil {
		out = append(out, "policies")
	}
	if b.Version != nil {
		out = append(out, "version")
	}
	if len(b.Shards) > 0 {
		out = append(out, "shards")
	}
	if b.Allocation != nil {
		out = append(out, "allocation")
	}
	if b.Settings != nil {
		out = append(out, "settings")
	}
	if b.NodesStats != nil {
		out = append(out, "nodesStats")
	}
	if b.Pipelines != nil {
		out = append(out, "pipelines")
	}
	return out
}
