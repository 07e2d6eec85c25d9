package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

func TestHistoryRoundTrip(t *testing.T) {
	recordIngest(model.IngestRecord{
		Source:    "roundtrip.zip",
		Fields:    []string{"shards", "settings"},
		Advisory:  "missing ILM files: ilm_policies.json",
		Timestamp: time.Now(),
	})

	records, err := ListHistory(100)
	require.NoError(t, err)

	var found *model.IngestRecord
	for i := range records {
		if records[i].Source == "roundtrip.zip" {
			found = &records[i]
			break
		}
	}
	require.NotNil(t, found, "expected the recorded ingest to be listed")
	require.Equal(t, []string{"shards", "settings"}, found.Fields)
	require.Contains(t, found.Advisory, "ilm_policies.json")
}
