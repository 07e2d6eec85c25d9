package model

import "encoding/json"

// IlmExplain is the errors-only ILM explain snapshot: index name to the
// raw explain document. The explain shape varies by version and error, so
// it is kept raw.
type IlmExplain struct {
	Indices map[string]json.RawMessage `json:"indices"`
}

// ClusterVersion is the version snapshot subset the header view shows.
type ClusterVersion struct {
	Name        string      `json:"name,omitempty"`
	ClusterName string      `json:"cluster_name,omitempty"`
	Version     VersionInfo `json:"version"`
}

type VersionInfo struct {
	Number      string `json:"number"`
	BuildFlavor string `json:"build_flavor,omitempty"`
	BuildType   string `json:"build_type,omitempty"`
	BuildHash   string `json:"build_hash,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
}
