package failover

import (
	"context"
	"time"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/resolver"
)

// ResolvedRemote is a configured remote plus the endpoints its last
// resolution produced.
type ResolvedRemote struct {
	original   endpoint.Endpoint
	attempted  bool
	isResolved bool
	endpoints  []endpoint.Endpoint
	index      int
}

// NewResolvedRemote creates an unresolved remote.
func NewResolvedRemote(original endpoint.Endpoint) *ResolvedRemote {
	return &ResolvedRemote{original: original}
}

// Original is the remote as configured.
func (r *ResolvedRemote) Original() endpoint.Endpoint {
	return r.original
}

// NeedsResolution reports whether no resolution has been applied yet.
func (r *ResolvedRemote) NeedsResolution() bool {
	return !r.attempted
}

// IsResolved reports whether the last resolution attempt succeeded.
func (r *ResolvedRemote) IsResolved() bool {
	return r.isResolved
}

// Endpoints returns a copy of the resolved endpoint list.
func (r *ResolvedRemote) Endpoints() []endpoint.Endpoint {
	return append([]endpoint.Endpoint(nil), r.endpoints...)
}

// CurrentEndpoint returns the endpoint under the cursor.
func (r *ResolvedRemote) CurrentEndpoint() (endpoint.Endpoint, bool) {
	if r.index >= len(r.endpoints) {
		return endpoint.Endpoint{}, false
	}
	return r.endpoints[r.index], true
}

// NextEndpoint moves the cursor forward and reports whether it still
// points at an endpoint.
func (r *ResolvedRemote) NextEndpoint() bool {
	if r.index < len(r.endpoints) {
		r.index++
	}
	return r.index < len(r.endpoints)
}

// ApplyResolution replaces the endpoint list with the compatible records
// and rewinds the cursor. A failure, or an answer with no compatible
// record, leaves the remote unresolved with no endpoints.
func (r *ResolvedRemote) ApplyResolution(records []resolver.Record, err error) {
	r.attempted = true
	r.index = 0
	r.endpoints = nil
	r.isResolved = false
	if err != nil {
		return
	}
	for _, rec := range resolver.FilterCompatible(records, r.original.Protocol) {
		r.endpoints = append(r.endpoints, endpoint.Endpoint{Address: rec.Address, Protocol: r.original.Protocol})
	}
	r.isResolved = len(r.endpoints) > 0
}

// Resolve resolves the remote synchronously. The controller uses the
// asynchronous form and calls ApplyResolution itself.
func (r *ResolvedRemote) Resolve(ctx context.Context, res *resolver.Resolver, timeout time.Duration) error {
	result := <-res.Resolve(ctx, r.original.Address, timeout)
	r.ApplyResolution(result.Records, result.Err)
	if result.Err != nil {
		return result.Err
	}
	if !r.isResolved {
		return errNoCompatibleRecords(r.original)
	}
	return nil
}
