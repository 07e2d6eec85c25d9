package view

import (
	"encoding/json"
	"sort"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

// ShardTable is the shard view: the rows themselves plus the counts the
// header chips show.
type ShardTable struct {
	Rows    []model.Shard  `json:"rows"`
	ByState map[string]int `json:"byState"`
	ByIndex map[string]int `json:"byIndex"`
	Total   int            `json:"total"`
}

func BuildShardTable(shards []model.Shard) ShardTable {
	t := ShardTable{
		Rows:    shards,
		ByState: map[string]int{},
		ByIndex: map[string]int{},
		Total:   len(shards),
	}
	if t.Rows == nil {
		t.Rows = []model.Shard{}
	}
	for _, s := range shards {
		t.ByState[s.State]++
		t.ByIndex[s.Index]++
	}
	return t
}

// IlmSummary pairs the error indices with the known policy names.
type IlmSummary struct {
	ErrorIndices []string `json:"errorIndices"`
	PolicyNames  []string `json:"policyNames"`
	ErrorCount   int      `json:"errorCount"`
}

func BuildIlmSummary(errors *model.IlmExplain, policies map[string]json.RawMessage) IlmSummary {
	s := IlmSummary{ErrorIndices: []string{}, PolicyNames: []string{}}
	if errors != nil {
		for idx := range errors.Indices {
			s.ErrorIndices = append(s.ErrorIndices, idx)
		}
		sort.Strings(s.ErrorIndices)
		s.ErrorCount = len(s.ErrorIndices)
	}
	for name := range policies {
		s.PolicyNames = append(s.PolicyNames, name)
	}
	sort.Strings(s.PolicyNames)
	return s
}

// PipelineSummary is one row of the pipeline view.
type PipelineSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Processors  int    `json:"processors"`
}

func BuildPipelineSummaries(pipelines map[string]json.RawMessage) []PipelineSummary {
	out := make([]PipelineSummary, 0, len(pipelines))
	for name, raw := range pipelines {
		var body struct {
			Description string            `json:"description"`
			Processors  []json.RawMessage `json:"processors"`
		}
		// a malformed pipeline body still gets a row with zero processors
		_ = json.Unmarshal(raw, &body)
		out = append(out, PipelineSummary{
			Name:        name,
			Description: body.Description,
			Processors:  len(body.Processors),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
