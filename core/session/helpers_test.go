package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/datacount"
	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/resolver"
	"github.com/gocircum/tunnelcore/core/session"
	"github.com/gocircum/tunnelcore/core/transport"
	"github.com/gocircum/tunnelcore/pkg/sharedstate"
	"github.com/gocircum/tunnelcore/testutils"
	"github.com/stretchr/testify/require"
)

// fakeEngine negotiates instantly unless told otherwise.
type fakeEngine struct {
	mu sync.Mutex

	sink     session.EventSink
	links    []transport.Link
	rebinds  int
	cleanups int
	shutdown []error
	reconn   []error

	options *config.Configuration
	// silent addresses never produce a session
	silent map[string]bool
	// onSetLink, when set, replaces the default session start
	onSetLink func(link transport.Link) session.Event

	ignoreShutdown bool
	canRebind      bool
	dataCount      *datacount.DataCount
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		silent: make(map[string]bool),
		options: &config.Configuration{
			IPv4: &config.IPv4Settings{Address: "10.8.0.2", AddressMask: "255.255.255.0", DefaultGateway: "10.8.0.1"},
		},
	}
}

func (e *fakeEngine) SetDelegate(sink session.EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

func (e *fakeEngine) SetLink(link transport.Link) error {
	e.mu.Lock()
	e.links = append(e.links, link)
	e.mu.Unlock()
	e.negotiate(link)
	return nil
}

func (e *fakeEngine) negotiate(link transport.Link) {
	e.mu.Lock()
	sink, silent, hook, opts := e.sink, e.silent[link.RemoteAddress()], e.onSetLink, e.options
	e.mu.Unlock()

	if hook != nil {
		if ev := hook(link); ev != nil {
			sink.Post(ev)
		}
		return
	}
	if silent {
		return
	}
	sink.Post(session.SessionStarted{
		RemoteAddress:  link.RemoteAddress(),
		RemoteProtocol: link.Endpoint().Protocol,
		Options:        opts,
	})
}

func (e *fakeEngine) CanRebindLink() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canRebind
}

func (e *fakeEngine) RebindLink(link transport.Link) error {
	e.mu.Lock()
	e.rebinds++
	e.links = append(e.links, link)
	e.mu.Unlock()
	e.negotiate(link)
	return nil
}

func (e *fakeEngine) Shutdown(err error) {
	e.mu.Lock()
	e.shutdown = append(e.shutdown, err)
	sink, ignore := e.sink, e.ignoreShutdown
	e.mu.Unlock()
	if !ignore {
		sink.Post(session.SessionStopped{Err: err})
	}
}

func (e *fakeEngine) Reconnect(err error) {
	e.mu.Lock()
	e.reconn = append(e.reconn, err)
	sink := e.sink
	e.mu.Unlock()
	sink.Post(session.SessionStopped{Err: err, ShouldReconnect: true})
}

func (e *fakeEngine) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleanups++
}

func (e *fakeEngine) DataCount() (datacount.DataCount, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dataCount == nil {
		return datacount.DataCount{}, false
	}
	return *e.dataCount, true
}

// post delivers an event through the current delegate.
func (e *fakeEngine) post(ev session.Event) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()
	sink.Post(ev)
}

func (e *fakeEngine) linkCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.links)
}

func (e *fakeEngine) counts() (cleanups, rebinds, reconnects int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cleanups, e.rebinds, len(e.reconn)
}

// fakeLink is a link that carries nothing.
type fakeLink struct {
	ep endpoint.Endpoint

	mu     sync.Mutex
	closed bool
}

func (l *fakeLink) Endpoint() endpoint.Endpoint { return l.ep }
func (l *fakeLink) IsReliable() bool { return l.ep.Protocol.IsReliable() }
func (l *fakeLink) RemoteAddress() string { return l.ep.Address }
func (l *fakeLink) ReadPacket() ([]byte, error) { return nil, transport.ErrLinkClosed }
func (l *fakeLink) WritePacket([]byte) error { return nil }
func (l *fakeLink) WritePackets([][]byte) error { return nil }

func (l *fakeLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *fakeLink) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// scriptedDialer records every dial and fails the endpoints it is told to.
type scriptedDialer struct {
	mu     sync.Mutex
	dialed []endpoint.Endpoint
	fail   map[endpoint.Endpoint]error
	links  []*fakeLink

	// hold, when set, delays every dial until it is closed
	hold chan struct{}
}

func newScriptedDialer() *scriptedDialer {
	return &scriptedDialer{fail: make(map[endpoint.Endpoint]error)}
}

func (d *scriptedDialer) DialLink(ctx context.Context, ep endpoint.Endpoint) (transport.Link, error) {
	d.mu.Lock()
	d.dialed = append(d.dialed, ep)
	hold := d.hold
	d.mu.Unlock()
	if hold != nil {
		<-hold
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail[ep]; err != nil {
		return nil, err
	}
	link := &fakeLink{ep: ep}
	d.links = append(d.links, link)
	return link, nil
}

func (d *scriptedDialer) failWith(ep endpoint.Endpoint, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail[ep] = err
}

func (d *scriptedDialer) dialedLinks() []*fakeLink {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeLink(nil), d.links...)
}

func (d *scriptedDialer) history() []endpoint.Endpoint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]endpoint.Endpoint(nil), d.dialed...)
}

// staticBackend answers from a fixed table; unknown hosts fail.
type staticBackend map[string][]resolver.Record

func (b staticBackend) LookupHost(ctx context.Context, host string) ([]resolver.Record, error) {
	if recs, ok := b[host]; ok {
		return recs, nil
	}
	return nil, resolver.ErrNoRecords
}

type harness struct {
	cfg    session.Config
	state  *sharedstate.Tunnel
	ctrl   *session.Controller
	events <-chan session.Notification
}

func testTimeouts() config.Timeouts {
	return config.Timeouts{
		DNS:               config.Duration(time.Second),
		Socket:            config.Duration(200 * time.Millisecond),
		Shutdown:          config.Duration(200 * time.Millisecond),
		ReconnectionDelay: config.Duration(20 * time.Millisecond),
	}
}

func newHarness(t *testing.T, cfg session.Config) *harness {
	t.Helper()
	if cfg.Resolver == nil {
		cfg.Resolver = resolver.New(staticBackend{}, testutils.NewTestLogger())
	}
	if cfg.Timeouts == (config.Timeouts{}) {
		cfg.Timeouts = testTimeouts()
	}
	if cfg.State == nil {
		cfg.State = sharedstate.ForTunnel(sharedstate.NewMemoryStore(), "test")
	}
	cfg.Logger = testutils.NewTestLogger()

	ctrl, err := session.NewController(cfg)
	require.NoError(t, err)
	events, unsubscribe := ctrl.Subscribe()
	t.Cleanup(func() {
		unsubscribe()
		ctrl.Close()
	})
	return &harness{cfg: cfg, state: cfg.State, ctrl: ctrl, events: events}
}

// start calls Start and returns a channel fed by its completion.
func (h *harness) start() <-chan error {
	done := make(chan error, 2)
	h.ctrl.Start(func(err error) { done <- err })
	return done
}

func (h *harness) stop() <-chan struct{} {
	done := make(chan struct{}, 2)
	h.ctrl.Stop(func() { done <- struct{}{} })
	return done
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(testutils.TestTimeout):
		t.Fatal("timed out waiting for completion")
		return nil
	}
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(testutils.TestTimeout):
		t.Fatal("timed out waiting for completion")
	}
}

// requireNoMore fails if ch delivers anything within a short grace period.
func requireNoMore[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("completion called more than once: %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func (h *harness) waitState(t *testing.T, s session.State) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ctrl.State() == s },
		testutils.TestTimeout, testutils.TestInterval, "state never became %s (now %s)", s, h.ctrl.State())
}

func udp(addr string, port uint16) endpoint.Endpoint {
	return endpoint.New(addr, endpoint.UDP, port)
}
