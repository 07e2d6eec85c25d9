package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimaryRulesAreMutuallyExclusive(t *testing.T) {
	for _, r := range primaryRules {
		field, ok := matchPrimary(r.match)
		require.True(t, ok)
		require.Equal(t, r.field, field, "filename %s should match its own rule first", r.match)
		_, aux := matchAuxiliary(r.match)
		require.False(t, aux, "filename %s should not match an auxiliary rule", r.match)
	}
	for _, r := range auxiliaryRules {
		_, primary := matchPrimary(r.match)
		require.False(t, primary, "auxiliary filename %s should not match a primary rule", r.match)
	}
}

func TestMatchPrimaryIgnoresPathAndCase(t *testing.T) {
	field, ok := matchPrimary("Diagnostics 2024/COMMERCIAL/Nodes_Stats.JSON")
	require.True(t, ok)
	require.Equal(t, FieldNodesStats, field)

	_, ok = matchPrimary("unrelated.json")
	require.False(t, ok)
}

func TestFieldNamesCoverAllRules(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range primaryRules {
		name := r.field.String()
		require.NotEqual(t, "unknown", name)
		require.False(t, seen[name], "duplicate field name %s", name)
		seen[name] = true
	}
	require.Len(t, seen, 8)
}
