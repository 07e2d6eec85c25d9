package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/config"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/ingest"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/logging"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/stash"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/version"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/view"
)

func main() {
	logger := logging.NewWithService("inspect")
	config.LoadEnv(logger)

	bundlePath := flag.String("bundle", config.GetEnv("BUNDLE_PATH", ""), "diagnostic archive to ingest (zip or tar.gz)")
	asJSON := flag.Bool("json", false, "print the full result as json")
	showVersion := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("inspect version=%s\n", version.Build)
		return
	}
	if *bundlePath == "" {
		logger.Fatal("bundle path is required (flag --bundle or env BUNDLE_PATH)")
	}

	kv := stash.NewMemory()
	ing := ingest.New(kv, logger)
	res, err := ing.IngestFile(*bundlePath)
	if err != nil {
		logger.WithError(err).Fatal("ingest failed")
	}
	ing.Wait()

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logger.WithError(err).Fatal("encode failed")
		}
		return
	}

	fmt.Printf("bundle: %s\n", *bundlePath)
	fmt.Printf("fields: %v\n", res.Bundle.FieldNames())
	if res.Advisory != nil {
		fmt.Printf("advisory: %s\n", res.Advisory.Message())
	}
	if v := res.Bundle.Version; v != nil {
		fmt.Printf("cluster: %s (es %s)\n", v.ClusterName, v.Version.Number)
	}
	for _, card := range view.BuildNodeCards(res.Bundle.NodesStats, res.Master) {
		marker := " "
		if card.Master {
			marker = "*"
		}
		fmt.Printf("node %s %-20s %-15s roles=%v\n", marker, card.Name, card.IP, card.Roles)
	}
	if shards := view.BuildShardTable(res.Bundle.Shards); shards.Total > 0 {
		fmt.Printf("shards: %d total", shards.Total)
		states := make([]string, 0, len(shards.ByState))
		for s := range shards.ByState {
			states = append(states, s)
		}
		sort.Strings(states)
		for _, s := range states {
			fmt.Printf(" %s=%d", s, shards.ByState[s])
		}
		fmt.Println()
	}
	if keys, err := kv.Keys(); err == nil && len(keys) > 0 {
		fmt.Printf("stash keys: %v\n", keys)
	}
	ilm := view.BuildIlmSummary(res.Bundle.Errors, res.Bundle.Policies)
	if ilm.ErrorCount > 0 {
		fmt.Printf("ilm errors: %d indices\n", ilm.ErrorCount)
	}
}
