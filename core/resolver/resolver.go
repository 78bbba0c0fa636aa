//go:generate mockgen -package=mocks -destination=../../mocks/mock_backend.go github.com/gocircum/tunnelcore/core/resolver Backend

// Package resolver turns remote hostnames into address records.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"github.com/gocircum/tunnelcore/pkg/logging"
)

// ErrNoRecords is returned when a lookup succeeds with an empty answer.
var ErrNoRecords = errors.New("no address records")

// Record is one resolved address.
type Record struct {
	Address string
	IsIPv6  bool
}

// RecordFromAddr builds a Record from a parsed address.
func RecordFromAddr(addr netip.Addr) Record {
	addr = addr.Unmap()
	return Record{Address: addr.String(), IsIPv6: addr.Is6()}
}

// Result is the outcome of one resolution. Exactly one of Records and Err
// is set.
type Result struct {
	Records []Record
	Err     error
}

// Backend performs the actual lookup. Implementations return records in
// response order.
type Backend interface {
	LookupHost(ctx context.Context, host string) ([]Record, error)
}

// Resolver resolves endpoint addresses through a Backend.
type Resolver struct {
	backend Backend
	logger  logging.Logger
}

// New creates a Resolver.
func New(backend Backend, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{backend: backend, logger: logger.With("component", "resolver")}
}

// Resolve looks up address and delivers exactly one Result on the returned
// channel. Literal IP addresses are answered before Resolve returns.
// Hostname lookups run on their own goroutine and fail with a DNS failure
// once timeout elapses, even if the backend does not honor its context.
func (r *Resolver) Resolve(ctx context.Context, address string, timeout time.Duration) <-chan Result {
	out := make(chan Result, 1)

	if addr, err := netip.ParseAddr(address); err == nil {
		out <- Result{Records: []Record{{Address: address, IsIPv6: addr.Is6()}}}
		return out
	}

	go func() {
		out <- r.lookup(ctx, address, timeout)
	}()
	return out
}

func (r *Resolver) lookup(ctx context.Context, host string, timeout time.Duration) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan Result, 1)
	go func() {
		records, err := r.backend.LookupHost(ctx, host)
		done <- Result{Records: records, Err: err}
	}()

	var res Result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = Result{Err: ctx.Err()}
	}

	if res.Err == nil && len(res.Records) == 0 {
		res.Err = ErrNoRecords
	}
	if res.Err != nil {
		r.logger.Warn("DNS resolution failed", "host", logging.Masked(host), "error", res.Err)
		return Result{Err: tunnelerr.New(tunnelerr.DNSFailure, fmt.Errorf("resolve %s: %w", logging.Masked(host), res.Err))}
	}
	r.logger.Debug("DNS resolved", "host", logging.Masked(host), "records", len(res.Records))
	return Result{Records: res.Records}
}

// FilterCompatible drops records whose family the protocol excludes.
// Order is preserved.
func FilterCompatible(records []Record, proto endpoint.Protocol) []Record {
	family := proto.SocketType.Family()
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		switch {
		case family == endpoint.IPv4Only && rec.IsIPv6:
			continue
		case family == endpoint.IPv6Only && !rec.IsIPv6:
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ResolveSync blocks until Resolve delivers.
func (r *Resolver) ResolveSync(ctx context.Context, address string, timeout time.Duration) ([]Record, error) {
	res := <-r.Resolve(ctx, address, timeout)
	return res.Records, res.Err
}
