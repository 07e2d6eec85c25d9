package ingest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/stash"
)

// Advisory is a non-fatal, user-visible note about partial data
// availability. It is distinct from an error: ingestion still succeeded.
type Advisory struct {
	Missing []string `json:"missing"`
}

func (a *Advisory) Message() string {
	return "missing ILM files: " + strings.Join(a.Missing, ", ")
}

// Result is what one ingestion attempt yields: the bundle with whichever
// fields were found, the elected-master record if the archive carried one,
// and an advisory when the ILM files were incomplete.
type Result struct {
	Bundle   model.Bundle      `json:"bundle"`
	Master   *model.MasterNode `json:"master,omitempty"`
	Advisory *Advisory         `json:"advisory,omitempty"`
}

// Ingestor turns archives (or the demo resources) into bundles and writes
// the auxiliary datasets into the stash.
type Ingestor struct {
	stash stash.Stash
	log   *logrus.Logger
	wg    sync.WaitGroup
}

func New(st stash.Stash, logger *logrus.Logger) *Ingestor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Ingestor{stash: st, log: logger}
}

// Wait joins any pending auxiliary persist tasks. The primary result is
// always delivered before those tasks complete; callers that need the
// stash keys to be visible (shutdown, tests) wait here.
func (ing *Ingestor) Wait() {
	ing.wg.Wait()
}

// IngestFile opens path and ingests it as an archive.
func (ing *Ingestor) IngestFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	return ing.IngestArchive(st.Name(), f, st.Size())
}

// IngestArchive extracts the recognized JSON entries from a zip or tar.gz
// archive and returns a best-effort result. Failure to open the container
// is fatal; a decode or parse failure for one entry only leaves that field
// absent and never aborts the remaining entries.
func (ing *Ingestor) IngestArchive(name string, r io.ReaderAt, size int64) (*Result, error) {
	entries, err := readEntries(r, size)
	if err != nil {
		return nil, err
	}

	res := &Result{Bundle: model.NewBundle()}
	found := map[Field]bool{}
	var aux []auxEntry

	for _, e := range entries {
		if field, ok := matchPrimary(e.path); ok {
			if found[field] {
				continue
			}
			if err := ing.decodePrimary(res, field, e.data); err != nil {
				ing.log.WithError(err).WithField("entry", e.path).Debug("entry skipped")
				continue
			}
			found[field] = true
			continue
		}
		if key, ok := matchAuxiliary(e.path); ok {
			aux = append(aux, auxEntry{key: key, path: e.path, data: e.data})
			continue
		}
		if matchMaster(e.path) && res.Master == nil {
			res.Master = parseMaster(e.data)
		}
	}

	res.Advisory = ilmAdvisory(found)

	// Auxiliary datasets are persisted after the primary result is
	// produced; the caller may observe the result before the keys land.
	if len(aux) > 0 {
		ing.wg.Add(1)
		go func() {
			defer ing.wg.Done()
			ing.persistAuxiliary(aux)
		}()
	}

	ing.record(name, res)
	return res, nil
}

type entry struct {
	path string
	data []byte
}

type auxEntry struct {
	key  string
	path string
	data []byte
}

// readEntries walks the archive and returns every non-directory entry whose
// name matches any recognized rule. An unreadable container is a hard
// failure; an unreadable single entry is skipped.
func readEntries(r io.ReaderAt, size int64) ([]entry, error) {
	if zr, err := zip.NewReader(r, size); err == nil {
		return readZip(zr), nil
	}
	entries, err := readTarGz(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("unreadable archive: not zip or tar.gz: %w", err)
	}
	return entries, nil
}

func readZip(zr *zip.Reader) []entry {
	var out []entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !recognized(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			continue
		}
		out = append(out, entry{path: f.Name, data: data})
	}
	return out
}

func readTarGz(r io.Reader) ([]entry, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	var out []entry
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg || !recognized(hdr.Name) {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			continue
		}
		out = append(out, entry{path: hdr.Name, data: data})
	}
	return out, nil
}

func recognized(path string) bool {
	if _, ok := matchPrimary(path); ok {
		return true
	}
	if _, ok := matchAuxiliary(path); ok {
		return true
	}
	return matchMaster(path)
}

func (ing *Ingestor) decodePrimary(res *Result, field Field, data []byte) error {
	switch field {
	case FieldErrors:
		var v model.IlmExplain
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.Errors = &v
	case FieldPolicies:
		var v map[string]json.RawMessage
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.Policies = v
	case FieldVersion:
		var v model.ClusterVersion
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.Version = &v
	case FieldShards:
		var v []model.Shard
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if v == nil {
			v = []model.Shard{}
		}
		res.Bundle.Shards = v
	case FieldAllocation:
		var v model.AllocationExplain
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.Allocation = &v
	case FieldSettings:
		var v map[string]json.RawMessage
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.Settings = v
		// settings are additionally handed off for out-of-band readers
		if ing.stash != nil {
			if err := ing.stash.Put(stash.KeySettings, append(json.RawMessage(nil), data...)); err != nil {
				ing.log.WithError(err).Warn("settings stash write failed")
			}
		}
	case FieldNodesStats:
		var v model.NodesStats
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.NodesStats = &v
	case FieldPipelines:
		var v map[string]json.RawMessage
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		res.Bundle.Pipelines = v
	}
	return nil
}

func (ing *Ingestor) persistAuxiliary(aux []auxEntry) {
	seen := map[string]bool{}
	for _, e := range aux {
		if seen[e.key] {
			continue
		}
		if !json.Valid(e.data) {
			ing.log.WithField("entry", e.path).Debug("auxiliary entry skipped: invalid json")
			continue
		}
		if ing.stash == nil {
			continue
		}
		if err := ing.stash.Put(e.key, e.data); err != nil {
			ing.log.WithError(err).WithField("key", e.key).Warn("auxiliary stash write failed")
			continue
		}
		seen[e.key] = true
	}
}

// parseMaster accepts both the cat-master array form and a bare object.
func parseMaster(data []byte) *model.MasterNode {
	var list []model.MasterNode
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		return &list[0]
	}
	var one model.MasterNode
	if err := json.Unmarshal(data, &one); err == nil && (one.ID != "" || one.Name != "") {
		return &one
	}
	return nil
}

// ilmAdvisory names exactly the ILM filenames that were not found. Both
// present means no advisory.
func ilmAdvisory(found map[Field]bool) *Advisory {
	var missing []string
	if !found[FieldErrors] {
		missing = append(missing, errorsFilename)
	}
	if !found[FieldPolicies] {
		missing = append(missing, policiesFilename)
	}
	if len(missing) == 0 {
		return nil
	}
	return &Advisory{Missing: missing}
}

func (ing *Ingestor) record(source string, res *Result) {
	rec := model.IngestRecord{
		Source:    source,
		Fields:    res.Bundle.FieldNames(),
		Timestamp: time.Now(),
	}
	if res.Advisory != nil {
		rec.Advisory = res.Advisory.Message()
	}
	recordIngest(rec)
}

// IngestBytes is a convenience for buffers already in memory.
func (ing *Ingestor) IngestBytes(name string, data []byte) (*Result, error) {
	return ing.IngestArchive(name, bytes.NewReader(data), int64(len(data)))
}
