package resolver

import (
	"fmt"

	"github.com/gocircum/tunnelcore/core/config"
)

// NewBackend builds the backend selected in the resolver config.
func NewBackend(cfg config.ResolverConfig) (Backend, error) {
	switch cfg.Backend {
	case "", config.ResolverSystem:
		return NewSystemBackend(), nil
	case config.ResolverDNS:
		network := cfg.Network
		if network == "" {
			network = "udp"
		}
		return NewDNSBackend(cfg.Servers, network), nil
	case config.ResolverDoH:
		return NewDoHBackend(cfg.DoHURL, cfg.BootstrapIP)
	}
	return nil, fmt.Errorf("unknown resolver backend %q", cfg.Backend)
}
