package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/datacount"
	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/failover"
	"github.com/gocircum/tunnelcore/core/netsettings"
	"github.com/gocircum/tunnelcore/core/resolver"
	"github.com/gocircum/tunnelcore/core/transport"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"github.com/gocircum/tunnelcore/pkg/logging"
	"github.com/gocircum/tunnelcore/pkg/sharedstate"
	"github.com/google/uuid"
)

var (
	// ErrAlreadyStarted is passed to a Start completion while a previous
	// start or session is still running.
	ErrAlreadyStarted = errors.New("tunnel already started")
	// ErrStopped is passed to a pending Start completion when Stop is
	// called before the tunnel came up.
	ErrStopped = errors.New("tunnel stopped before it was established")
	// ErrNotEstablished is passed to a pending Start completion when the
	// engine ends the session cleanly before it was established.
	ErrNotEstablished = errors.New("tunnel was not established")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("controller closed")
)

// Config wires a Controller to its collaborators.
type Config struct {
	// ID keys the values published to shared state.
	ID string
	// Configuration holds the local tunnel options, remotes included.
	Configuration *config.Configuration
	Timeouts      config.Timeouts

	Resolver *resolver.Resolver
	Dialer   transport.Dialer
	// Upgrade is consulted after a network failure on a connectionless
	// endpoint. Defaults to transport.NoUpgrade.
	Upgrade transport.UpgradePolicy

	Engine Engine
	Host   Host

	// State defaults to an in-memory store.
	State *sharedstate.Tunnel
	// Notifier defaults to a private one.
	Notifier *Notifier
	Logger   logging.Logger
}

// Controller is the session state machine. All of its state is confined to
// a serial queue; the exported methods only enqueue work.
type Controller struct {
	local    *config.Configuration
	timeouts config.Timeouts
	resolver *resolver.Resolver
	dialer   transport.Dialer
	upgrade  transport.UpgradePolicy
	engine   Engine
	host     Host
	shared   *sharedstate.Tunnel
	notifier *Notifier
	logger   logging.Logger

	queue  *serialQueue
	ctx    context.Context
	cancel context.CancelFunc

	statusMu sync.RWMutex
	current  State

	// queue confined
	state           State
	cursor          *failover.Cursor
	link            transport.Link
	gen             uint64
	attempt         string
	upgraded        *endpoint.Endpoint
	rebinding       bool
	shouldReconnect bool
	fatalErr        error
	isCountingData  bool
	startDone       func(error)
	stopDone        func()

	negotiationTimer *time.Timer
	reconnectTimer   *time.Timer
	watchdogTimer    *time.Timer
	dataCountTimer   *time.Timer
}

// NewController validates cfg and creates an idle controller.
func NewController(cfg Config) (*Controller, error) {
	switch {
	case cfg.Configuration == nil:
		return nil, fmt.Errorf("session: configuration is required")
	case cfg.Resolver == nil:
		return nil, fmt.Errorf("session: resolver is required")
	case cfg.Dialer == nil:
		return nil, fmt.Errorf("session: dialer is required")
	case cfg.Engine == nil:
		return nil, fmt.Errorf("session: engine is required")
	case cfg.Host == nil:
		return nil, fmt.Errorf("session: host is required")
	}

	remotes, err := cfg.Configuration.ProcessedRemotes()
	if err != nil {
		return nil, fmt.Errorf("session: invalid remotes: %w", err)
	}
	cursor, err := failover.NewCursor(remotes)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	if cfg.Upgrade == nil {
		cfg.Upgrade = transport.NoUpgrade{}
	}
	if cfg.State == nil {
		cfg.State = sharedstate.ForTunnel(sharedstate.NewMemoryStore(), cfg.ID)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		local:    cfg.Configuration,
		timeouts: cfg.Timeouts,
		resolver: cfg.Resolver,
		dialer:   cfg.Dialer,
		upgrade:  cfg.Upgrade,
		engine:   cfg.Engine,
		host:     cfg.Host,
		shared:   cfg.State,
		notifier: cfg.Notifier,
		logger:   cfg.Logger.With("component", "session", "tunnel", cfg.ID),
		queue:    newSerialQueue(),
		ctx:      ctx,
		cancel:   cancel,
		cursor:   cursor,
	}, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.current
}

// Subscribe returns the notification stream and its unsubscribe function.
func (c *Controller) Subscribe() (<-chan Notification, func()) {
	return c.notifier.Subscribe()
}

// Start connects the tunnel. completion is called exactly once: with nil
// once the session is up and its settings are applied, or with the error
// that ended the attempt.
func (c *Controller) Start(completion func(error)) {
	if !c.queue.Async(func() { c.start(completion) }) {
		completion(ErrClosed)
	}
}

// Stop disconnects the tunnel and suppresses any pending reconnection.
// completion is called exactly once, at the latest after the shutdown
// timeout.
func (c *Controller) Stop(completion func()) {
	if !c.queue.Async(func() { c.stop(completion) }) {
		completion()
	}
}

// Sleep is called when the device goes to sleep.
func (c *Controller) Sleep(completion func()) {
	if !c.queue.Async(func() {
		c.logger.Debug("Sleep signal received", "state", c.state)
		completion()
	}) {
		completion()
	}
}

// Wake is called when the device wakes up.
func (c *Controller) Wake() {
	c.queue.Async(func() {
		c.logger.Debug("Wake signal received", "state", c.state)
	})
}

// NotifyBetterPath reports that a better network path became available.
// A connected session is torn down and negotiated again.
func (c *Controller) NotifyBetterPath() {
	c.queue.Async(c.betterPath)
}

// Close releases the link and stops the queue. Pending completions are
// called and pending timers become no-ops.
func (c *Controller) Close() {
	c.cancel()
	c.queue.Sync(func() {
		c.shouldReconnect = false
		c.teardown(false)
		if c.dataCountTimer != nil {
			c.dataCountTimer.Stop()
		}
		if c.startDone != nil {
			c.startDone(ErrClosed)
			c.startDone = nil
		}
		if c.stopDone != nil {
			c.stopDone()
			c.stopDone = nil
		}
	})
	c.queue.Close()
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("State changed", "from", c.state, "to", s, "attempt", c.attempt)
	prev := c.state.Status()
	c.state = s

	c.statusMu.Lock()
	c.current = s
	c.statusMu.Unlock()

	if status := s.Status(); status != prev {
		c.notifier.Publish(Notification{Type: NotificationStatus, Status: status})
	}
}

func (c *Controller) start(completion func(error)) {
	if c.state != Idle && c.state != Failed {
		completion(ErrAlreadyStarted)
		return
	}
	c.logger.Info("Starting tunnel...")

	c.startDone = completion
	c.stopDone = nil
	c.fatalErr = nil
	c.upgraded = nil
	c.rebinding = false
	c.shouldReconnect = true
	c.setLastError(nil)
	c.cursor.Reset()

	c.scheduleDataCount()
	c.connect()
}

// connect begins a new attempt on the endpoint under the cursor.
func (c *Controller) connect() {
	c.gen++
	c.attempt = newAttemptID()
	c.stopTimers()

	if c.upgraded != nil {
		c.logger.Debug("Endpoint follows a link upgrade", "attempt", c.attempt)
		c.dial(*c.upgraded)
		return
	}

	for !c.cursor.IsExhausted() && !c.cursor.HasCandidate() {
		c.cursor.Advance()
	}
	if c.cursor.IsExhausted() {
		c.dispose(tunnelerr.New(tunnelerr.ExhaustedEndpoints, nil))
		return
	}

	remote := c.cursor.CurrentRemote()
	if remote.NeedsResolution() {
		c.resolve(remote)
		return
	}
	ep, err := c.cursor.Current()
	if err != nil {
		c.dispose(tunnelerr.New(tunnelerr.ExhaustedEndpoints, err))
		return
	}
	c.dial(ep)
}

func (c *Controller) resolve(remote *failover.ResolvedRemote) {
	c.setState(Resolving)
	gen := c.gen
	address := remote.Original().Address
	c.logger.Debug("Resolving remote", "attempt", c.attempt, "remote", remote.Original().Description())

	ch := c.resolver.Resolve(c.ctx, address, c.timeouts.DNS.Std())
	select {
	case res := <-ch:
		c.resolved(remote, res)
		return
	default:
	}
	go func() {
		res := <-ch
		c.queue.Async(func() {
			if gen != c.gen {
				return
			}
			c.resolved(remote, res)
		})
	}()
}

func (c *Controller) resolved(remote *failover.ResolvedRemote, res resolver.Result) {
	remote.ApplyResolution(res.Records, res.Err)
	if c.cursor.HasCandidate() {
		c.logger.Debug("Remote resolved", "attempt", c.attempt, "endpoints", len(remote.Endpoints()))
		c.connect()
		return
	}

	err := res.Err
	if err == nil {
		err = tunnelerr.New(tunnelerr.DNSFailure, fmt.Errorf("no compatible records for %s", remote.Original().Description()))
	}
	c.logger.Warn("Skipping unresolvable remote", "attempt", c.attempt, "remote", remote.Original().Description(), "error", err)
	c.setLastError(err)

	if c.cursor.Advance() == failover.Exhausted {
		c.dispose(tunnelerr.New(tunnelerr.ExhaustedEndpoints, err))
		return
	}
	c.connect()
}

func (c *Controller) dial(ep endpoint.Endpoint) {
	c.setState(LinkConnecting)
	gen := c.gen
	ctx := c.ctx
	c.logger.Info("Will connect", "attempt", c.attempt, "endpoint", ep.Description())

	go func() {
		link, err := c.dialer.DialLink(ctx, ep)
		queued := c.queue.Async(func() {
			if gen != c.gen || c.state != LinkConnecting {
				if link != nil {
					_ = link.Close()
				}
				return
			}
			if err != nil {
				kind := tunnelerr.LinkFailure
				if ep.Protocol.IsReliable() && errors.Is(err, context.DeadlineExceeded) {
					kind = tunnelerr.LinkActivityTimeout
				}
				c.handleFailure(ep, tunnelerr.New(kind, err), true)
				return
			}
			c.attach(link)
		})
		if !queued && link != nil {
			_ = link.Close()
		}
	}()
}

func (c *Controller) attach(link transport.Link) {
	gen := c.gen
	c.link = link
	c.engine.SetDelegate(c.sinkFor(gen))

	var err error
	if c.rebinding && c.engine.CanRebindLink() {
		c.logger.Debug("Rebinding session to new link", "attempt", c.attempt)
		err = c.engine.RebindLink(link)
	} else {
		err = c.engine.SetLink(link)
	}
	c.rebinding = false
	if err != nil {
		c.handleFailure(link.Endpoint(), fmt.Errorf("failed to attach link: %w", err), false)
		return
	}
	c.setState(Negotiating)

	timeout := c.timeouts.Socket.Std()
	if timeout <= 0 {
		return
	}
	c.negotiationTimer = c.queue.After(timeout, func() {
		if gen != c.gen || c.state != Negotiating {
			return
		}
		kind := tunnelerr.NegotiationTimeout
		if link.IsReliable() {
			kind = tunnelerr.LinkActivityTimeout
		}
		c.logger.Debug("Link timed out waiting for a session", "attempt", c.attempt)
		c.handleFailure(link.Endpoint(), tunnelerr.New(kind, fmt.Errorf("no session after %s", timeout)), true)
	})
}

func (c *Controller) sinkFor(gen uint64) EventSink {
	return EventSinkFunc(func(ev Event) {
		c.queue.Async(func() {
			if gen != c.gen {
				c.logger.Debug("Dropping stale engine event", "event", fmt.Sprintf("%T", ev))
				return
			}
			switch ev := ev.(type) {
			case SessionStarted:
				c.sessionStarted(ev)
			case SessionStopped:
				c.sessionStopped(ev)
			}
		})
	})
}

func (c *Controller) sessionStarted(ev SessionStarted) {
	if c.state != Negotiating {
		c.logger.Warn("Ignoring session start", "state", c.state)
		return
	}
	if c.negotiationTimer != nil {
		c.negotiationTimer.Stop()
	}
	c.logger.Info("Session did start", "attempt", c.attempt, "address", logging.Masked(ev.RemoteAddress), "protocol", ev.RemoteProtocol)

	if err := c.shared.SetServerConfiguration(ev.Options); err != nil {
		c.logger.Warn("Failed to publish server configuration", "error", err)
	}
	c.isCountingData = true
	c.publishDataCount()

	settings, err := netsettings.Builder{
		RemoteAddress: ev.RemoteAddress,
		Local:         c.local,
		Remote:        ev.Options,
		Logger:        c.logger,
	}.Build()
	if err != nil {
		c.logger.Error("Failed to compute network settings", "error", err)
		c.shutdownEngine(err)
		return
	}

	gen := c.gen
	ctx := c.ctx
	go func() {
		err := c.host.SetNetworkSettings(ctx, settings)
		c.queue.Async(func() {
			if gen != c.gen || c.state != Negotiating {
				return
			}
			if err != nil {
				c.logger.Error("Failed to configure tunnel", "error", err)
				c.shutdownEngine(fmt.Errorf("failed to configure tunnel: %w", err))
				return
			}
			c.logger.Info("Tunnel interface is now UP", "attempt", c.attempt)
			c.upgraded = nil
			c.setState(Connected)
			c.setLastError(nil)
			if c.startDone != nil {
				c.startDone(nil)
				c.startDone = nil
			}
		})
	}()
}

func (c *Controller) sessionStopped(ev SessionStopped) {
	if ev.Err != nil {
		c.logger.Warn("Session did stop with error", "attempt", c.attempt, "error", ev.Err, "reconnect", ev.ShouldReconnect)
	} else {
		c.logger.Info("Session did stop", "attempt", c.attempt, "reconnect", ev.ShouldReconnect)
	}

	err, reconnect := ev.Err, ev.ShouldReconnect
	if c.fatalErr != nil {
		err, reconnect = c.fatalErr, false
	}
	var ep endpoint.Endpoint
	if c.link != nil {
		ep = c.link.Endpoint()
	}
	c.handleFailure(ep, err, reconnect)
}

// handleFailure ends the current attempt. Terminal failures dispose the
// tunnel; everything else reconnects after the reconnection delay, moving
// to another endpoint when the failure was endpoint specific. Unclassified
// engine errors follow engineReconnect.
func (c *Controller) handleFailure(ep endpoint.Endpoint, err error, engineReconnect bool) {
	if c.stopDone != nil {
		c.finishStop()
		return
	}

	wasConnected := c.state == Connected
	terminal := !engineReconnect
	var kind tunnelerr.Kind
	if err != nil {
		kind = tunnelerr.Classify(err)
		terminal = kind.IsTerminal()
		if kind == tunnelerr.EngineInternal {
			terminal = !engineReconnect
		}
		if kind != tunnelerr.NetworkChanged {
			c.setLastError(err)
		}
	}

	c.teardown(!terminal)
	if terminal {
		c.dispose(err)
		return
	}

	if err != nil && kind.IsEndpointSpecific() {
		wasUpgraded := c.upgraded != nil
		c.upgraded = nil
		if !wasUpgraded {
			if up, ok := c.upgrade.Upgrade(ep); ok {
				c.logger.Info("Upgrading link", "from", ep.Description(), "to", up.Description())
				c.upgraded = &up
				c.scheduleReconnect()
				return
			}
		}
		// An endpoint that carried a session is retried before moving on.
		if kind == tunnelerr.LinkFailure && wasConnected && engineReconnect {
			c.logger.Debug("Session link dropped, reconnecting to the same endpoint", "endpoint", ep.Description())
			c.scheduleReconnect()
			return
		}
		if c.cursor.Advance() == failover.Exhausted {
			c.dispose(tunnelerr.New(tunnelerr.ExhaustedEndpoints, err))
			return
		}
	}
	c.scheduleReconnect()
}

func (c *Controller) scheduleReconnect() {
	c.setState(Reconnecting)
	delay := c.timeouts.ReconnectionDelay.Std()
	c.logger.Debug("Disconnection is recoverable, tunnel will reconnect", "delay", delay)

	gen := c.gen
	c.reconnectTimer = c.queue.After(delay, func() {
		if gen != c.gen {
			return
		}
		if !c.shouldReconnect {
			c.logger.Warn("Reconnection flag was cleared in the meantime")
			return
		}
		c.logger.Debug("Tunnel is about to reconnect...")
		c.connect()
	})
}

// teardown releases the link of the current attempt and invalidates its
// callbacks.
func (c *Controller) teardown(reconnect bool) {
	c.gen++
	c.stopTimers()
	c.isCountingData = false
	c.publishDataCount()
	if err := c.shared.SetServerConfiguration(nil); err != nil {
		c.logger.Warn("Failed to clear server configuration", "error", err)
	}

	if c.link == nil {
		return
	}
	c.rebinding = reconnect && c.engine.CanRebindLink()
	if !c.rebinding {
		c.engine.Cleanup()
	}
	if err := c.link.Close(); err != nil && !transport.IsClosedError(err) {
		c.logger.Debug("Failed to close link", "error", err)
	}
	c.link = nil
}

// dispose reports a failed or ended tunnel to whoever is waiting for it.
func (c *Controller) dispose(err error) {
	c.shouldReconnect = false
	c.rebinding = false
	c.fatalErr = nil
	c.upgraded = nil

	if err != nil {
		kind := tunnelerr.Classify(err)
		c.logger.Error("Tunnel did stop", "error", err, "kind", kind)
		c.setLastError(err)
		c.setState(Failed)
		c.notifier.Publish(Notification{Type: NotificationFailed, Status: StatusDisconnected, ErrorKind: kind})
	} else {
		c.logger.Info("Tunnel did stop")
		c.setState(Idle)
	}

	if c.startDone != nil {
		if err == nil {
			err = ErrNotEstablished
		}
		c.startDone(err)
		c.startDone = nil
		return
	}
	c.host.CancelTunnel(err)
}

// shutdownEngine asks the engine to end the session with a terminal error.
// The watchdog disposes the tunnel if the engine never answers.
func (c *Controller) shutdownEngine(err error) {
	c.fatalErr = err
	c.setState(Disconnecting)
	c.engine.Shutdown(err)
	c.armWatchdog(func() {
		c.logger.Warn("Engine not responding to shutdown, forcing disposal")
		c.handleFailure(endpoint.Endpoint{}, c.fatalErr, false)
	})
}

func (c *Controller) betterPath() {
	if c.state != Connected {
		c.logger.Debug("Ignoring better path", "state", c.state)
		return
	}
	c.logger.Info("Stopping tunnel due to a new better path")
	c.setState(Reconnecting)

	reason := tunnelerr.New(tunnelerr.NetworkChanged, nil)
	c.engine.Reconnect(reason)
	var ep endpoint.Endpoint
	if c.link != nil {
		ep = c.link.Endpoint()
	}
	c.armWatchdog(func() {
		c.logger.Warn("Engine not responding to reconnect, forcing it")
		c.handleFailure(ep, reason, true)
	})
}

func (c *Controller) stop(completion func()) {
	c.logger.Info("Stopping tunnel...")
	if c.startDone != nil {
		c.startDone(ErrStopped)
		c.startDone = nil
	}
	c.shouldReconnect = false
	c.setLastError(nil)

	if c.stopDone != nil {
		prev := c.stopDone
		c.stopDone = func() {
			prev()
			completion()
		}
		return
	}
	c.stopDone = completion

	if c.link == nil {
		c.finishStop()
		return
	}

	c.setState(Disconnecting)
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	c.engine.Shutdown(nil)

	c.armWatchdog(func() {
		c.logger.Warn("Tunnel not responding, forcing stop", "timeout", c.timeouts.Shutdown.Std())
		c.finishStop()
	})
}

func (c *Controller) finishStop() {
	c.teardown(false)
	c.fatalErr = nil
	c.upgraded = nil
	c.rebinding = false
	if c.dataCountTimer != nil {
		c.dataCountTimer.Stop()
	}
	c.setState(Idle)
	c.logger.Info("Tunnel did stop on request")

	if done := c.stopDone; done != nil {
		c.stopDone = nil
		done()
	}
}

func (c *Controller) armWatchdog(fn func()) {
	gen := c.gen
	c.watchdogTimer = c.queue.After(c.timeouts.Shutdown.Std(), func() {
		if gen != c.gen {
			return
		}
		fn()
	})
}

func (c *Controller) stopTimers() {
	for _, t := range []*time.Timer{c.negotiationTimer, c.reconnectTimer, c.watchdogTimer} {
		if t != nil {
			t.Stop()
		}
	}
	c.negotiationTimer, c.reconnectTimer, c.watchdogTimer = nil, nil, nil
}

func (c *Controller) setLastError(err error) {
	var werr error
	if err == nil {
		werr = c.shared.SetLastError(nil)
	} else {
		kind := tunnelerr.Classify(err)
		werr = c.shared.SetLastError(&kind)
	}
	if werr != nil {
		c.logger.Warn("Failed to publish last error", "error", werr)
	}
}

func (c *Controller) scheduleDataCount() {
	if c.dataCountTimer != nil {
		c.dataCountTimer.Stop()
	}
	interval := c.timeouts.DataCountInterval.Std()
	if interval <= 0 {
		return
	}
	c.dataCountTimer = c.queue.After(interval, func() {
		if c.state == Idle || c.state == Failed {
			return
		}
		c.publishDataCount()
		c.scheduleDataCount()
	})
}

func (c *Controller) publishDataCount() {
	var dc *datacount.DataCount
	if c.isCountingData {
		if count, ok := c.engine.DataCount(); ok {
			dc = &count
		}
	}
	if err := c.shared.SetDataCount(dc); err != nil {
		c.logger.Warn("Failed to publish data count", "error", err)
	}
}

func newAttemptID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
