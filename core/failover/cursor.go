// Package failover walks the configured remotes and their resolved
// endpoints in order.
package failover

import (
	"errors"
	"fmt"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
)

var (
	// ErrNoRemotes is returned by NewCursor for an empty remote list.
	ErrNoRemotes = errors.New("no remotes configured")
	// ErrNeedsResolution means the current remote must be resolved before
	// it can yield an endpoint.
	ErrNeedsResolution = errors.New("current remote needs resolution")
	// ErrExhausted means every remote has been tried.
	ErrExhausted = tunnelerr.ErrExhaustedEndpoints
)

func errNoCompatibleRecords(remote endpoint.Endpoint) error {
	return tunnelerr.New(tunnelerr.DNSFailure, fmt.Errorf("no %s compatible records for %s", remote.Protocol.SocketType, remote.Description()))
}

// AdvanceResult tells the caller where Advance landed.
type AdvanceResult int

const (
	AdvancedWithinRemote AdvanceResult = iota
	AdvancedToNextRemote
	Exhausted
)

func (a AdvanceResult) String() string {
	switch a {
	case AdvancedWithinRemote:
		return "withinRemote"
	case AdvancedToNextRemote:
		return "nextRemote"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("AdvanceResult(%d)", int(a))
}

// Cursor walks remotes strictly in configured order and, within a remote,
// endpoints strictly in resolution order. It is not safe for concurrent
// use; the session controller owns it on its serial queue.
type Cursor struct {
	remotes []*ResolvedRemote
	index   int
}

// NewCursor creates a cursor over the given remotes.
func NewCursor(remotes []endpoint.Endpoint) (*Cursor, error) {
	if len(remotes) == 0 {
		return nil, ErrNoRemotes
	}
	c := &Cursor{remotes: make([]*ResolvedRemote, 0, len(remotes))}
	for _, r := range remotes {
		c.remotes = append(c.remotes, NewResolvedRemote(r))
	}
	return c, nil
}

// Len returns the number of remotes.
func (c *Cursor) Len() int {
	return len(c.remotes)
}

// Index returns the current remote index; Len when exhausted.
func (c *Cursor) Index() int {
	return c.index
}

// IsExhausted reports whether every remote has been passed.
func (c *Cursor) IsExhausted() bool {
	return c.index >= len(c.remotes)
}

// CurrentRemote returns the remote under the cursor, or nil when exhausted.
func (c *Cursor) CurrentRemote() *ResolvedRemote {
	if c.IsExhausted() {
		return nil
	}
	return c.remotes[c.index]
}

// HasCandidate is true iff the current remote still owes a resolution
// attempt or has an endpoint at the cursor. A remote whose resolution
// failed has neither.
func (c *Cursor) HasCandidate() bool {
	remote := c.CurrentRemote()
	if remote == nil {
		return false
	}
	if remote.NeedsResolution() {
		return true
	}
	_, ok := remote.CurrentEndpoint()
	return ok
}

// Current returns the literal endpoint to connect to. Check HasCandidate
// first: a remote whose resolution failed also reports ErrNeedsResolution.
func (c *Cursor) Current() (endpoint.Endpoint, error) {
	remote := c.CurrentRemote()
	if remote == nil {
		return endpoint.Endpoint{}, ErrExhausted
	}
	ep, ok := remote.CurrentEndpoint()
	if !ok {
		return endpoint.Endpoint{}, ErrNeedsResolution
	}
	return ep, nil
}

// Advance moves to the next endpoint of the current remote, or to the next
// remote once the current one has none left. Unresolved remotes are
// skipped as a whole.
func (c *Cursor) Advance() AdvanceResult {
	remote := c.CurrentRemote()
	if remote == nil {
		return Exhausted
	}
	if remote.IsResolved() && remote.NextEndpoint() {
		return AdvancedWithinRemote
	}
	c.index++
	if c.IsExhausted() {
		return Exhausted
	}
	c.remotes[c.index].index = 0
	return AdvancedToNextRemote
}

// Reset rewinds to the first remote and forgets every resolution.
func (c *Cursor) Reset() {
	c.index = 0
	for _, r := range c.remotes {
		r.attempted = false
		r.isResolved = false
		r.endpoints = nil
		r.index = 0
	}
}
