package resolver

import (
	"context"
	"net"
	"net/netip"
)

// SystemBackend uses the platform resolver.
type SystemBackend struct {
	Resolver *net.Resolver
}

// NewSystemBackend returns a backend over net.DefaultResolver.
func NewSystemBackend() *SystemBackend {
	return &SystemBackend{Resolver: net.DefaultResolver}
}

// LookupHost implements Backend.
func (b *SystemBackend) LookupHost(ctx context.Context, host string) ([]Record, error) {
	addrs, err := b.Resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(addrs))
	for _, a := range addrs {
		records = append(records, RecordFromAddr(a))
	}
	return records, nil
}

var _ Backend = (*SystemBackend)(nil)

func parseAnswerAddr(s string) (Record, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return Record{}, false
	}
	return RecordFromAddr(addr), true
}
