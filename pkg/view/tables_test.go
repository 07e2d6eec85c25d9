package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

func TestShardTableCounts(t *testing.T) {
	table := BuildShardTable([]model.Shard{
		{Index: "logs-1", Shard: "0", Prirep: "p", State: "STARTED"},
		{Index: "logs-1", Shard: "0", Prirep: "r", State: "UNASSIGNED"},
		{Index: "logs-2", Shard: "0", Prirep: "p", State: "STARTED"},
	})
	require.Equal(t, 3, table.Total)
	require.Equal(t, 2, table.ByState["STARTED"])
	require.Equal(t, 1, table.ByState["UNASSIGNED"])
	require.Equal(t, 2, table.ByIndex["logs-1"])
}

func TestShardTableEmpty(t *testing.T) {
	table := BuildShardTable(nil)
	require.NotNil(t, table.Rows)
	require.Equal(t, 0, table.Total)
}

func TestIlmSummary(t *testing.T) {
	errors := &model.IlmExplain{Indices: map[string]json.RawMessage{
		"idx-b": json.RawMessage(`{}`),
		"idx-a": json.RawMessage(`{}`),
	}}
	policies := map[string]json.RawMessage{"p1": json.RawMessage(`{}`)}
	s := BuildIlmSummary(errors, policies)
	require.Equal(t, 2, s.ErrorCount)
	require.Equal(t, []string{"idx-a", "idx-b"}, s.ErrorIndices)
	require.Equal(t, []string{"p1"}, s.PolicyNames)

	empty := BuildIlmSummary(nil, nil)
	require.Equal(t, 0, empty.ErrorCount)
	require.NotNil(t, empty.ErrorIndices)
}

func TestPipelineSummaries(t *testing.T) {
	out := BuildPipelineSummaries(map[string]json.RawMessage{
		"pipe-b": json.RawMessage(`{"description":"second","processors":[{"set":{}},{"rename":{}}]}`),
		"pipe-a": json.RawMessage(`{"processors":[{"set":{}}]}`),
		"broken": json.RawMessage(`"not an object"`),
	})
	require.Len(t, out, 3)
	require.Equal(t, "broken", out[0].Name)
	require.Equal(t, 0, out[0].Processors)
	require.Equal(t, "pipe-a", out[1].Name)
	require.Equal(t, 1, out[1].Processors)
	require.Equal(t, "pipe-b", out[2].Name)
	require.Equal(t, 2, out[2].Processors)
	require.Equal(t, "second", out[2].Description)
}
