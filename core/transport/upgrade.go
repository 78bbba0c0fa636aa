package transport

import (
	"fmt"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/endpoint"
)

// UpgradePolicy decides whether a failed connectionless endpoint should be
// retried over a connection-oriented link.
type UpgradePolicy interface {
	Upgrade(ep endpoint.Endpoint) (endpoint.Endpoint, bool)
}

// NoUpgrade never upgrades.
type NoUpgrade struct{}

// Upgrade implements UpgradePolicy.
func (NoUpgrade) Upgrade(ep endpoint.Endpoint) (endpoint.Endpoint, bool) {
	return ep, false
}

// TCPFallback moves UDP endpoints to TCP on Port, keeping the address and
// family.
type TCPFallback struct {
	Port uint16
}

// Upgrade implements UpgradePolicy.
func (p TCPFallback) Upgrade(ep endpoint.Endpoint) (endpoint.Endpoint, bool) {
	if ep.Protocol.IsReliable() {
		return ep, false
	}
	return endpoint.Endpoint{
		Address:  ep.Address,
		Protocol: endpoint.Protocol{SocketType: ep.Protocol.SocketType.Reliable(), Port: p.Port},
	}, true
}

// NewUpgradePolicy maps the link config to a policy.
func NewUpgradePolicy(cfg config.LinkConfig) (UpgradePolicy, error) {
	switch cfg.Upgrade {
	case "", config.UpgradeNone:
		return NoUpgrade{}, nil
	case config.UpgradeTCPFallback:
		return TCPFallback{Port: cfg.TCPFallbackPort}, nil
	}
	return nil, fmt.Errorf("unknown link upgrade policy %q", cfg.Upgrade)
}
