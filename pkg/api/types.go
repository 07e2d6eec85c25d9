package api

import (
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/ingest"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

// IngestSummary is returned to the UI after an ingestion attempt and by
// the current-bundle endpoint.
type IngestSummary struct {
	Source   string            `json:"source"`
	Fields   []string          `json:"fields"`
	Shards   int               `json:"shards"`
	Master   *model.MasterNode `json:"master,omitempty"`
	Advisory *ingest.Advisory  `json:"advisory,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func summarize(source string, res *ingest.Result) IngestSummary {
	s := IngestSummary{
		Source:   source,
		Fields:   res.Bundle.FieldNames(),
		Shards:   len(res.Bundle.Shards),
		Master:   res.Master,
		Advisory: res.Advisory,
	}
	if res.Advisory != nil {
		s.Message = res.Advisory.Message()
	}
	return s
}
