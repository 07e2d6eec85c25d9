package ingest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/stash"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ingestlog")
	if err != nil {
		os.Exit(1)
	}
	os.Setenv("ILM_HISTORY_DB", filepath.Join(dir, "history.db"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func testIngestor(t *testing.T) (*Ingestor, stash.Stash) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	kv := stash.NewMemory()
	return New(kv, logger), kv
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildTarGz(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestIngestArchiveSubset(t *testing.T) {
	ing, kv := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"diag/shards.json":   `[{"index":"logs-1","shard":"0","prirep":"p","state":"STARTED"}]`,
		"diag/settings.json": `{"logs-1":{"settings":{"index":{"number_of_shards":"1"}}}}`,
	})

	res, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"shards", "settings"}, res.Bundle.FieldNames())
	require.Len(t, res.Bundle.Shards, 1)
	require.Equal(t, "logs-1", res.Bundle.Shards[0].Index)
	require.Nil(t, res.Bundle.Errors)
	require.Nil(t, res.Bundle.NodesStats)

	// settings are handed off synchronously during the primary pass
	v, ok, err := kv.Get(stash.KeySettings)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"logs-1":{"settings":{"index":{"number_of_shards":"1"}}}}`, string(v))
}

func TestMatchingIsCaseInsensitiveSubstring(t *testing.T) {
	ing, _ := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"Data/ILM_Policies.JSON": `{"my-policy":{"policy":{"phases":{}}}}`,
	})

	res, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	require.Contains(t, res.Bundle.Policies, "my-policy")
}

func TestNoAdvisoryWhenBothIlmFilesPresent(t *testing.T) {
	ing, _ := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"ilm_explain_only_errors.json": `{"indices":{"idx-1":{"step":"ERROR"}}}`,
		"ilm_policies.json":            `{"p1":{}}`,
	})

	res, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	require.Nil(t, res.Advisory)
}

func TestAdvisoryNamesExactlyTheMissingFiles(t *testing.T) {
	ing, _ := testIngestor(t)

	res, err := ing.IngestBytes("one.zip", buildZip(t, map[string]string{
		"ilm_policies.json": `{"p1":{}}`,
	}))
	require.NoError(t, err)
	require.NotNil(t, res.Advisory)
	require.Equal(t, []string{"ilm_explain_only_errors.json"}, res.Advisory.Missing)

	res, err = ing.IngestBytes("none.zip", buildZip(t, map[string]string{
		"version.json": `{"version":{"number":"8.12.0"}}`,
	}))
	require.NoError(t, err)
	require.NotNil(t, res.Advisory)
	require.Equal(t, []string{"ilm_explain_only_errors.json", "ilm_policies.json"}, res.Advisory.Missing)
	// ingestion still completes with the remaining fields populated
	require.Equal(t, []string{"version"}, res.Bundle.FieldNames())
}

func TestCorruptEntryLeavesOnlyThatFieldAbsent(t *testing.T) {
	ing, _ := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"shards.json":  `this is not json{{`,
		"version.json": `{"cluster_name":"c1","version":{"number":"8.12.0"}}`,
	})

	res, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	require.Empty(t, res.Bundle.Shards)
	require.NotNil(t, res.Bundle.Version)
	require.Equal(t, "8.12.0", res.Bundle.Version.Version.Number)
}

func TestShardsDefaultToEmptySlice(t *testing.T) {
	ing, _ := testIngestor(t)
	res, err := ing.IngestBytes("diag.zip", buildZip(t, map[string]string{
		"version.json": `{"version":{"number":"8.12.0"}}`,
	}))
	require.NoError(t, err)
	require.NotNil(t, res.Bundle.Shards)
	require.Len(t, res.Bundle.Shards, 0)
}

func TestUnreadableArchiveIsFatal(t *testing.T) {
	ing, _ := testIngestor(t)
	res, err := ing.IngestBytes("junk.bin", []byte("definitely not an archive"))
	require.Error(t, err)
	require.Nil(t, res)
}

func TestTarGzArchive(t *testing.T) {
	ing, _ := testIngestor(t)
	archive := buildTarGz(t, map[string]string{
		"diagnostics/nodes_stats.json": `{"cluster_name":"c1","nodes":{"n1":{"name":"node-a","ip":"10.0.0.1","roles":["master","data"]}}}`,
	})

	res, err := ing.IngestBytes("diag.tar.gz", archive)
	require.NoError(t, err)
	require.NotNil(t, res.Bundle.NodesStats)
	require.Equal(t, "node-a", res.Bundle.NodesStats.Nodes["n1"].Name)
}

func TestAuxiliaryFilesPersistAfterWait(t *testing.T) {
	ing, kv := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"index_templates.json": `{"index_templates":[{"name":"t1"}]}`,
		"aliases.json":         `[{"alias":"a1","index":"logs-1"}]`,
		"ilm_policies.json":    `{"p1":{}}`,
	})

	res, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	// auxiliary datasets never appear in the bundle itself
	require.Equal(t, []string{"policies"}, res.Bundle.FieldNames())

	ing.Wait()
	_, ok, err := kv.Get(stash.KeyIndexTemplates)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = kv.Get(stash.KeyAliases)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCorruptAuxiliaryEntryIsSkipped(t *testing.T) {
	ing, kv := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"aliases.json": `{{broken`,
	})

	_, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	ing.Wait()
	_, ok, err := kv.Get(stash.KeyAliases)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMasterRecordRecognized(t *testing.T) {
	ing, _ := testIngestor(t)
	archive := buildZip(t, map[string]string{
		"master.json":      `[{"id":"n1","host":"10.0.0.1","ip":"10.0.0.1","node":"node-a"}]`,
		"version.json":     `{"version":{"number":"8.12.0"}}`,
		"nodes_stats.json": `{"nodes":{"n1":{"name":"node-a"}}}`,
	})

	res, err := ing.IngestBytes("diag.zip", archive)
	require.NoError(t, err)
	require.NotNil(t, res.Master)
	require.Equal(t, "n1", res.Master.ID)
	require.Equal(t, "node-a", res.Master.Name)
}

func TestFirstEntryWinsPerField(t *testing.T) {
	ing, _ := testIngestor(t)
	// zip preserves insertion order; both entries match the version rule
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range []struct{ name, body string }{
		{"a/version.json", `{"version":{"number":"8.12.0"}}`},
		{"b/version.json", `{"version":{"number":"7.17.0"}}`},
	} {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	res, err := ing.IngestBytes("diag.zip", buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "8.12.0", res.Bundle.Version.Version.Number)
}
