package interfaces

import (
	"context"

	"github.com/gocircum/tunnelcore/core/session"
)

// Tunnel defines the public interface of a VPN tunnel.
type Tunnel interface {
	// Start connects the tunnel and waits until it is up or has failed.
	Start(ctx context.Context) error
	// Stop disconnects the tunnel.
	Stop(ctx context.Context) error
	// Status returns the current coarse status of the tunnel.
	Status() (string, error)
	// Subscribe returns a stream of status and failure notifications.
	Subscribe() (<-chan session.Notification, func())
}
