package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/model"
)

// demoResources is the fixed set of co-located demo snapshots. Unlike user
// archives these are assumed complete, so any one failure fails the whole
// load. Note there is no version resource; the demo bundle reports version
// as absent.
var demoResources = []string{
	"ilm_explain_only_errors.json",
	"ilm_policies.json",
	"index_templates.json",
	"aliases.json",
	"shards.json",
	"allocation_explain.json",
	"settings.json",
	"nodes_stats.json",
	"pipelines.json",
}

// LoadDemo fetches and decodes all demo resources concurrently, joining
// before anything is delivered. On success the stash receives exactly the
// three fixed keys.
func (ing *Ingestor) LoadDemo(ctx context.Context, client *http.Client, baseURL string) (*Result, error) {
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(baseURL, "/")

	var mu sync.Mutex
	raw := make(map[string]json.RawMessage, len(demoResources))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range demoResources {
		name := name
		g.Go(func() error {
			data, err := fetchJSON(gctx, client, base+"/"+name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			raw[name] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("demo load failed: %w", err)
	}

	res := &Result{Bundle: model.NewBundle()}
	found := map[Field]bool{}
	for _, name := range demoResources {
		field, ok := matchPrimary(name)
		if !ok {
			continue
		}
		if err := ing.decodePrimary(res, field, raw[name]); err != nil {
			return nil, fmt.Errorf("demo load failed: %s: %w", name, err)
		}
		found[field] = true
	}
	for _, r := range auxiliaryRules {
		if ing.stash == nil {
			break
		}
		if err := ing.stash.Put(r.key, raw[r.match]); err != nil {
			return nil, fmt.Errorf("demo load failed: persist %s: %w", r.key, err)
		}
	}

	ing.record("demo", res)
	return res, nil
}

// fetchJSON retrieves one resource and verifies it decodes as JSON.
func fetchJSON(ctx context.Context, client *http.Client, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid json")
	}
	return data, nil
}
