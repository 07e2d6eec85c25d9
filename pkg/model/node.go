package model

import "encoding/json"

// NodesStats is the parsed nodes-statistics snapshot. Nodes are keyed by
// node id. Only the fields the views touch are typed; the rest of each
// node document is retained raw and never validated.
type NodesStats struct {
	ClusterName string                `json:"cluster_name"`
	Nodes       map[string]NodeRecord `json:"nodes"`
}

// NodeRecord carries the per-node identity and metadata the node view reads.
type NodeRecord struct {
	Name             string                     `json:"name"`
	TransportAddress string                     `json:"transport_address,omitempty"`
	Host             string                     `json:"host,omitempty"`
	IP               string                     `json:"ip,omitempty"`
	Version          string                     `json:"version,omitempty"`
	BuildFlavor      string                     `json:"build_flavor,omitempty"`
	BuildHash        string                     `json:"build_hash,omitempty"`
	Roles            []string                   `json:"roles,omitempty"`
	Attributes       map[string]json.RawMessage `json:"attributes,omitempty"`
}

// MasterNode identifies the currently elected master by node id and/or
// name. It is only ever compared against NodeRecord keys and names.
type MasterNode struct {
	ID   string `json:"id"`
	Name string `json:"node"`
}
