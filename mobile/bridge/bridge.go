// Package bridge provides a gomobile-compatible wrapper around the tunnelcore library.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gocircum/tunnelcore"
	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/netsettings"
	"github.com/gocircum/tunnelcore/core/session"
	"github.com/gocircum/tunnelcore/pkg/logging"
	"gopkg.in/yaml.v3"
)

//go:generate mockgen -package=mocks -destination=../../mocks/mock_bridge.go -mock_names=Host=MockNativeHost github.com/gocircum/tunnelcore/mobile/bridge StatusUpdater,Host

var (
	mu sync.Mutex
	// tunnel is the single, global tunnel driven by the native host.
	tunnel *tunnelcore.Tunnel
	// stopRelay ends the notification relay of the running tunnel.
	stopRelay func()
	// engine is registered by the Go side of the app before any tunnel starts.
	engine session.Engine
)

// StatusUpdater is an interface that native mobile code must implement
// to receive status updates from the Go library.
type StatusUpdater interface {
	// OnStatusUpdate is called with a status string (e.g., "CONNECTED", "DISCONNECTED")
	// and a descriptive message.
	OnStatusUpdate(status, message string)
}

// Host is implemented by the native platform that owns the tunnel
// interface.
type Host interface {
	// SetNetworkSettings applies the YAML encoded settings to the tunnel
	// interface.
	SetNetworkSettings(settingsYAML string) error
	// CancelTunnel tears the platform tunnel down after a failure.
	CancelTunnel(reason string)
}

// RegisterEngine sets the protocol engine used by StartTunnel.
func RegisterEngine(e session.Engine) {
	mu.Lock()
	defer mu.Unlock()
	engine = e
}

type hostAdapter struct {
	host Host
}

func (a hostAdapter) SetNetworkSettings(ctx context.Context, s *netsettings.Settings) error {
	buf, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode network settings: %w", err)
	}
	return a.host.SetNetworkSettings(string(buf))
}

func (a hostAdapter) CancelTunnel(err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	a.host.CancelTunnel(reason)
}

// StartTunnel parses configYAML, creates the global tunnel and starts it in
// the background. Progress is reported through updater.
func StartTunnel(configYAML string, host Host, updater StatusUpdater) {
	mu.Lock()
	defer mu.Unlock()

	t, err := newTunnel(configYAML, host)
	if err != nil {
		updater.OnStatusUpdate("ERROR", err.Error())
		return
	}

	events, unsubscribe := t.Subscribe()
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relay(events, updater)
	}()

	tunnel = t
	stopRelay = func() {
		unsubscribe()
		<-relayDone
	}

	go func() {
		if err := t.Start(context.Background()); err != nil {
			logging.GetLogger().Warn("Tunnel failed to start", "error", err)
		}
	}()
}

// newTunnel must be called with mu held.
func newTunnel(configYAML string, host Host) (*tunnelcore.Tunnel, error) {
	if tunnel != nil {
		return nil, errors.New("tunnel already started")
	}
	if engine == nil {
		return nil, errors.New("no engine registered")
	}
	if strings.TrimSpace(configYAML) == "" {
		return nil, errors.New("configuration is empty")
	}

	fc, err := config.ParseFileConfig([]byte(configYAML), config.FormatYAML)
	if err != nil {
		return nil, err
	}
	return tunnelcore.NewTunnel(fc, engine, hostAdapter{host: host})
}

// relay forwards notifications to the native side until events is closed.
func relay(events <-chan session.Notification, updater StatusUpdater) {
	for n := range events {
		switch n.Type {
		case session.NotificationStatus:
			status := strings.ToUpper(string(n.Status))
			updater.OnStatusUpdate(status, "Tunnel is "+string(n.Status))
		case session.NotificationReinstalled:
			updater.OnStatusUpdate("REINSTALLED", "Tunnel configuration reinstalled")
		case session.NotificationFailed:
			updater.OnStatusUpdate("ERROR", string(n.ErrorKind))
		}
	}
}

// StopTunnel stops and releases the global tunnel.
func StopTunnel(updater StatusUpdater) {
	mu.Lock()
	t, stop := tunnel, stopRelay
	tunnel, stopRelay = nil, nil
	mu.Unlock()

	if t == nil {
		updater.OnStatusUpdate("ERROR", "Tunnel not running")
		return
	}
	if err := t.Stop(context.Background()); err != nil {
		logging.GetLogger().Warn("Failed to stop tunnel", "error", err)
	}
	stop()
	if err := t.Close(); err != nil {
		logging.GetLogger().Warn("Failed to close tunnel", "error", err)
	}
	updater.OnStatusUpdate("DISCONNECTED", "Tunnel stopped.")
}

func current() *tunnelcore.Tunnel {
	mu.Lock()
	defer mu.Unlock()
	return tunnel
}

// Reinstall reports that the platform reinstalled the tunnel profile.
func Reinstall() {
	if t := current(); t != nil {
		t.Install()
	}
}

// NotifyBetterPath reports that a better network path is available.
func NotifyBetterPath() {
	if t := current(); t != nil {
		t.NotifyBetterPath()
	}
}

// Sleep blocks until the tunnel has handled the sleep signal.
func Sleep() {
	if t := current(); t != nil {
		t.Sleep()
	}
}

func Wake() {
	if t := current(); t != nil {
		t.Wake()
	}
}

// Status returns the tunnel status, or "disconnected" when no tunnel runs.
func Status() string {
	t := current()
	if t == nil {
		return string(session.StatusDisconnected)
	}
	status, _ := t.Status()
	return status
}
