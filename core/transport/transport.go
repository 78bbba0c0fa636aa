//go:generate mockgen -package=mocks -destination=../../mocks/mock_transport.go github.com/gocircum/tunnelcore/core/transport Link,Dialer

// Package transport opens the UDP and TCP links a session runs over.
package transport

import (
	"context"
	"errors"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
)

// MaxPacketSize bounds a single datagram or frame.
const MaxPacketSize = 65535

// ErrLinkClosed is returned by I/O on a closed link.
var ErrLinkClosed = tunnelerr.New(tunnelerr.LinkFailure, errors.New("link closed"))

// Link is an established packet link to one endpoint. Every packet is
// obfuscated on write and deobfuscated on read.
type Link interface {
	// Endpoint is the literal endpoint the link is connected to.
	Endpoint() endpoint.Endpoint
	// IsReliable reports whether the link is connection oriented.
	IsReliable() bool
	// RemoteAddress is the peer's IP address.
	RemoteAddress() string
	// ReadPacket blocks until a packet arrives or the link is closed.
	ReadPacket() ([]byte, error)
	// WritePacket sends one packet.
	WritePacket(p []byte) error
	// WritePackets sends packets in order.
	WritePackets(ps [][]byte) error
	// Close tears the link down and unblocks ReadPacket.
	Close() error
}

// Dialer opens links.
type Dialer interface {
	DialLink(ctx context.Context, ep endpoint.Endpoint) (Link, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, ep endpoint.Endpoint) (Link, error)

// DialLink calls f.
func (f DialerFunc) DialLink(ctx context.Context, ep endpoint.Endpoint) (Link, error) {
	return f(ctx, ep)
}

// Middleware is a function that wraps a Dialer to add functionality.
type Middleware func(dialer Dialer) Dialer
