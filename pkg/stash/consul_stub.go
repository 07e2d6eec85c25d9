//go:build !consul

package stash

import (
	"log"
)

// NewConsulStash returns a memory stash when the consul build tag is not enabled.
func NewConsulStash(addr string) Stash {
	log.Printf("consul stash requested (addr=%s) but consul build tag not enabled; using memory stash", addr)
	return NewMemoryStash()
}
