package tunnelcore

import (
	"context"
	"fmt"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/datacount"
	"github.com/gocircum/tunnelcore/core/resolver"
	"github.com/gocircum/tunnelcore/core/session"
	"github.com/gocircum/tunnelcore/core/transport"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"github.com/gocircum/tunnelcore/interfaces"
	"github.com/gocircum/tunnelcore/pkg/logging"
	"github.com/gocircum/tunnelcore/pkg/sharedstate"
)

// Tunnel is one configured VPN tunnel.
type Tunnel struct {
	id       string
	ctrl     *session.Controller
	notifier *session.Notifier
	store    sharedstate.Store
	state    *sharedstate.Tunnel
	logger   logging.Logger
}

var _ interfaces.Tunnel = (*Tunnel)(nil)

// NewTunnel validates fc and wires a tunnel around the given engine and
// host.
func NewTunnel(fc *config.FileConfig, engine session.Engine, host session.Host) (*Tunnel, error) {
	if fc == nil {
		return nil, fmt.Errorf("tunnel config is required")
	}
	if err := fc.Validate(); err != nil {
		return nil, err
	}
	logging.SetMasksPrivateData(fc.ShouldMaskPrivateData())
	logger := logging.GetLogger().With("tunnel", fc.ID)

	backend, err := resolver.NewBackend(fc.Resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}
	obf, err := fc.Tunnel.Obfuscation.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid obfuscation: %w", err)
	}
	dialer, err := transport.NewDialer(fc.Link, obf, fc.Timeouts.Socket.Std(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dialer: %w", err)
	}
	upgrade, err := transport.NewUpgradePolicy(fc.Link)
	if err != nil {
		return nil, err
	}
	store, err := openStore(fc.SharedState)
	if err != nil {
		return nil, err
	}

	state := sharedstate.ForTunnel(store, fc.ID)
	notifier := session.NewNotifier()
	ctrl, err := session.NewController(session.Config{
		ID:            fc.ID,
		Configuration: &fc.Tunnel,
		Timeouts:      fc.Timeouts,
		Resolver:      resolver.New(backend, logger),
		Dialer:        dialer,
		Upgrade:       upgrade,
		Engine:        engine,
		Host:          host,
		State:         state,
		Notifier:      notifier,
		Logger:        logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Tunnel{
		id:       fc.ID,
		ctrl:     ctrl,
		notifier: notifier,
		store:    store,
		state:    state,
		logger:   logger,
	}, nil
}

func openStore(cfg config.SharedStateConfig) (sharedstate.Store, error) {
	switch cfg.Backend {
	case "", config.StateMemory:
		return sharedstate.NewMemoryStore(), nil
	case config.StateBadger:
		store, err := sharedstate.OpenBadgerStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open shared state: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown shared state backend %q", cfg.Backend)
}

// ID returns the identifier the tunnel publishes its state under.
func (t *Tunnel) ID() string {
	return t.id
}

// Install tells observers that the tunnel configuration was installed
// again by the host.
func (t *Tunnel) Install() {
	t.logger.Info("Tunnel configuration reinstalled")
	t.notifier.Publish(session.Notification{
		Type:   session.NotificationReinstalled,
		Status: t.ctrl.State().Status(),
	})
}

// Start connects the tunnel and blocks until it is up, it fails, or ctx
// is done. A cancelled ctx does not stop the attempt; call Stop for that.
func (t *Tunnel) Start(ctx context.Context) error {
	done := make(chan error, 1)
	t.ctrl.Start(func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop disconnects the tunnel and blocks until it is down or ctx is done.
func (t *Tunnel) Stop(ctx context.Context) error {
	done := make(chan struct{})
	t.ctrl.Stop(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sleep blocks until the controller has handled the sleep signal.
func (t *Tunnel) Sleep() {
	done := make(chan struct{})
	t.ctrl.Sleep(func() { close(done) })
	<-done
}

func (t *Tunnel) Wake() {
	t.ctrl.Wake()
}

func (t *Tunnel) NotifyBetterPath() {
	t.ctrl.NotifyBetterPath()
}

// Status returns the coarse tunnel status.
func (t *Tunnel) Status() (string, error) {
	return string(t.ctrl.State().Status()), nil
}

func (t *Tunnel) Subscribe() (<-chan session.Notification, func()) {
	return t.notifier.Subscribe()
}

// DataCount returns the last published traffic counters, if any.
func (t *Tunnel) DataCount() (datacount.DataCount, bool, error) {
	return t.state.DataCount()
}

// LastError returns the kind of the last error that tore a link down.
func (t *Tunnel) LastError() (tunnelerr.Kind, bool, error) {
	return t.state.LastError()
}

// Close stops the controller and releases the shared state store.
func (t *Tunnel) Close() error {
	t.ctrl.Close()
	return t.store.Close()
}
