package ingest

import "strings"

// Field identifies one bundle field fed by a recognized filename.
type Field int

const (
	FieldErrors Field = iota
	FieldPolicies
	FieldVersion
	FieldShards
	FieldAllocation
	FieldSettings
	FieldNodesStats
	FieldPipelines
)

func (f Field) String() string {
	switch f {
	case FieldErrors:
		return "errors"
	case FieldPolicies:
		return "policies"
	case FieldVersion:
		return "version"
	case FieldShards:
		return "shards"
	case FieldAllocation:
		return "allocation"
	case FieldSettings:
		return "settings"
	case FieldNodesStats:
		return "nodesStats"
	case FieldPipelines:
		return "pipelines"
	}
	return "unknown"
}

type rule struct {
	match string // lower-case filename substring
	field Field
}

// primaryRules is the fixed ordered table of recognized filenames. Matching
// is case-insensitive substring over the full entry path; only the first
// matching rule applies. The names are mutually exclusive, so no entry can
// match two rules.
var primaryRules = []rule{
	{"ilm_explain_only_errors.json", FieldErrors},
	{"ilm_policies.json", FieldPolicies},
	{"version.json", FieldVersion},
	{"shards.json", FieldShards},
	{"allocation_explain.json", FieldAllocation},
	{"settings.json", FieldSettings},
	{"nodes_stats.json", FieldNodesStats},
	{"pipelines.json", FieldPipelines},
}

const (
	errorsFilename   = "ilm_explain_only_errors.json"
	policiesFilename = "ilm_policies.json"
	masterFilename   = "master.json"
)

// auxiliaryRules maps the second-pass filenames to their stash keys.
var auxiliaryRules = []struct {
	match string
	key   string
}{
	{"index_templates.json", "index_templates"},
	{"aliases.json", "aliases"},
}

func matchPrimary(path string) (Field, bool) {
	lower := strings.ToLower(path)
	for _, r := range primaryRules {
		if strings.Contains(lower, r.match) {
			return r.field, true
		}
	}
	return 0, false
}

func matchAuxiliary(path string) (string, bool) {
	lower := strings.ToLower(path)
	for _, r := range auxiliaryRules {
		if strings.Contains(lower, r.match) {
			return r.key, true
		}
	}
	return "", false
}

func matchMaster(path string) bool {
	return strings.Contains(strings.ToLower(path), masterFilename)
}
