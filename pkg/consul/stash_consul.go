//go:build consul

package consul

import (
	"encoding/json"
	"fmt"
	"strings"

	consulapi "github.com/hashicorp/consul/api"
)

// Stash is a Consul-backed stash implementation so multiple viewer
// replicas share the handoff keys.
type Stash struct {
	cli *consulapi.Client
}

const keyPrefix = "ilm-analyzer/stash/"

func NewStash(addr string) *Stash {
	cfg := consulapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	cli, err := consulapi.NewClient(cfg)
	if err != nil {
		return &Stash{}
	}
	return &Stash{cli: cli}
}

func (s *Stash) Put(key string, value json.RawMessage) error {
	if s.cli == nil {
		return fmt.Errorf("consul client not configured")
	}
	_, err := s.cli.KV().Put(&consulapi.KVPair{Key: keyPrefix + key, Value: value}, nil)
	return err
}

func (s *Stash) Get(key string) (json.RawMessage, bool, error) {
	if s.cli == nil {
		return nil, false, fmt.Errorf("consul client not configured")
	}
	kv, _, err := s.cli.KV().Get(keyPrefix+key, nil)
	if err != nil || kv == nil {
		return nil, false, err
	}
	return kv.Value, true, nil
}

func (s *Stash) Keys() ([]string, error) {
	if s.cli == nil {
		return nil, fmt.Errorf("consul client not configured")
	}
	keys, _, err := s.cli.KV().Keys(keyPrefix, "", nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, keyPrefix))
	}
	return out, nil
}
