//go:generate mockgen -package=mocks -destination=../../mocks/mock_session.go github.com/gocircum/tunnelcore/core/session Engine,Host

// Package session drives a tunnel from its first connection attempt to its
// final disconnection. A Controller owns the failover cursor, the active
// link and the engine handle, and runs every state transition on a single
// serial queue.
package session

import (
	"context"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/datacount"
	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/netsettings"
	"github.com/gocircum/tunnelcore/core/transport"
)

// Event is something the engine reports about the session it negotiates.
type Event interface {
	event()
}

// SessionStarted is posted once the engine has negotiated a session over
// the attached link. Options are the options pushed by the server.
type SessionStarted struct {
	RemoteAddress  string
	RemoteProtocol endpoint.Protocol
	Options        *config.Configuration
}

// SessionStopped is posted when the engine session ends. Err is nil for a
// clean stop. ShouldReconnect asks the controller for another attempt.
type SessionStopped struct {
	Err             error
	ShouldReconnect bool
}

func (SessionStarted) event() {}
func (SessionStopped) event() {}

// EventSink receives engine events. Post never blocks.
type EventSink interface {
	Post(ev Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ev Event)

// Post calls f.
func (f EventSinkFunc) Post(ev Event) {
	f(ev)
}

// Engine is the crypto and negotiation engine. The controller attaches a
// link to it and waits for its events; the engine owns everything that
// happens on the wire.
type Engine interface {
	// SetDelegate installs the sink events are posted to.
	SetDelegate(sink EventSink)
	// SetLink starts negotiating over link.
	SetLink(link transport.Link) error
	// CanRebindLink reports whether the current session survives a link
	// swap.
	CanRebindLink() bool
	// RebindLink moves the current session onto link.
	RebindLink(link transport.Link) error
	// Shutdown ends the session. The engine answers with SessionStopped
	// carrying err.
	Shutdown(err error)
	// Reconnect ends the session and asks for a new one. The engine answers
	// with SessionStopped and ShouldReconnect set.
	Reconnect(err error)
	// Cleanup drops any per-session state after a stop.
	Cleanup()
	// DataCount returns the traffic counters of the live session.
	DataCount() (datacount.DataCount, bool)
}

// Host is the tunneling runtime hosting the controller.
type Host interface {
	// SetNetworkSettings replaces the tunnel network settings as a whole.
	SetNetworkSettings(ctx context.Context, settings *netsettings.Settings) error
	// CancelTunnel tears the tunnel down from outside a Start or Stop call.
	CancelTunnel(err error)
}
