//go:build consul

package stash

import (
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/consul"
)

// NewConsulStash creates a Consul-backed stash (requires build tag consul).
func NewConsulStash(addr string) Stash {
	return consul.NewStash(addr)
}
