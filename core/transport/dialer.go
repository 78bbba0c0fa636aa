package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/obfuscation"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"golang.org/x/net/proxy"
)

// NetConfig contains configuration options for NetDialer.
type NetConfig struct {
	Obfuscation obfuscation.Method
	DialTimeout time.Duration
	KeepAlive   time.Duration
	// SOCKS5Proxy, when set, carries TCP links through that proxy. UDP
	// links always go direct.
	SOCKS5Proxy string
}

// NetDialer opens real UDP and TCP links.
type NetDialer struct {
	dialer *net.Dialer
	socks  proxy.ContextDialer
	obf    obfuscation.Method
}

// NewNetDialer creates a NetDialer.
func NewNetDialer(cfg NetConfig) (*NetDialer, error) {
	if err := cfg.Obfuscation.Validate(); err != nil {
		return nil, err
	}
	d := &NetDialer{
		dialer: &net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		},
		obf: cfg.Obfuscation,
	}
	if cfg.SOCKS5Proxy != "" {
		pd, err := proxy.SOCKS5("tcp", cfg.SOCKS5Proxy, nil, d.dialer)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		cd, ok := pd.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
		}
		d.socks = cd
	}
	return d, nil
}

// DialLink connects to a literal endpoint.
func (d *NetDialer) DialLink(ctx context.Context, ep endpoint.Endpoint) (Link, error) {
	if ep.IsHostname() {
		return nil, tunnelerr.New(tunnelerr.LinkFailure, fmt.Errorf("endpoint %s is not resolved", ep.Description()))
	}

	network := ep.Protocol.SocketType.Network()
	if ep.Protocol.IsReliable() {
		var conn net.Conn
		var err error
		if d.socks != nil {
			// proxies only understand plain "tcp"
			conn, err = d.socks.DialContext(ctx, "tcp", ep.HostPort())
		} else {
			conn, err = d.dialer.DialContext(ctx, network, ep.HostPort())
		}
		if err != nil {
			return nil, tunnelerr.New(tunnelerr.LinkFailure, fmt.Errorf("dial %s: %w", ep.Description(), err))
		}
		return newTCPLink(conn, ep, d.obf), nil
	}

	conn, err := d.dialer.DialContext(ctx, network, ep.HostPort())
	if err != nil {
		return nil, tunnelerr.New(tunnelerr.LinkFailure, fmt.Errorf("dial %s: %w", ep.Description(), err))
	}
	return newUDPLink(conn, ep, d.obf), nil
}

var _ Dialer = (*NetDialer)(nil)
