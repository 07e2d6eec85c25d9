package view

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

// NodeCard is the per-node layout the node list renders. Attributes are
// always carried; whether they are disclosed is client-side toggle state.
type NodeCard struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	IP         string      `json:"ip,omitempty"`
	Version    string      `json:"version,omitempty"`
	Roles      []string    `json:"roles,omitempty"`
	Master     bool        `json:"master"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute is one rendered key/value pair. Structured values are shown as
// their serialized text form, scalars as their natural text representation.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BuildNodeCards maps the nodes snapshot to cards, sorted by name then id.
// A node is the master if its id equals the master record's id or its name
// equals the master record's node name; either match suffices. With no
// master record, no card is ever flagged.
func BuildNodeCards(nodes *model.NodesStats, master *model.MasterNode) []NodeCard {
	if nodes == nil {
		return []NodeCard{}
	}
	out := make([]NodeCard, 0, len(nodes.Nodes))
	for id, n := range nodes.Nodes {
		out = append(out, NodeCard{
			ID:         id,
			Name:       n.Name,
			IP:         n.IP,
			Version:    n.Version,
			Roles:      n.Roles,
			Master:     isMaster(id, n, master),
			Attributes: formatAttributes(n.Attributes),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func isMaster(id string, n model.NodeRecord, master *model.MasterNode) bool {
	if master == nil {
		return false
	}
	if master.ID != "" && master.ID == id {
		return true
	}
	return master.Name != "" && master.Name == n.Name
}

func formatAttributes(attrs map[string]json.RawMessage) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, Attribute{Key: k, Value: formatValue(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// formatValue unquotes JSON strings, passes other scalars through, and
// leaves objects/arrays as their serialized text.
func formatValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return trimmed
}
