package stash

import "encoding/json"

// Fixed keys written by ingestion and read by downstream view code.
const (
	KeyIndexTemplates = "index_templates"
	KeyAliases        = "aliases"
	KeySettings       = "settings"
)

// Stash is the transient key/value handoff between ingestion (writes) and
// view endpoints (reads). Values are JSON-serialized blobs held for the
// process lifetime; writes are last-writer-wins. The default backend is
// in-memory; build with the consul tag for a Consul KV backend.
type Stash interface {
	Put(key string, value json.RawMessage) error
	Get(key string) (json.RawMessage, bool, error)
	Keys() ([]string, error)
}

// NewMemory is a helper to construct the in-memory implementation without
// importing it directly.
func NewMemory() Stash {
	return NewMemoryStash()
}
