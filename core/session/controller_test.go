package session_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/datacount"
	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/netsettings"
	"github.com/gocircum/tunnelcore/core/resolver"
	"github.com/gocircum/tunnelcore/core/session"
	"github.com/gocircum/tunnelcore/core/transport"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"github.com/gocircum/tunnelcore/mocks"
	"github.com/gocircum/tunnelcore/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func permissiveHost(t *testing.T) *mocks.MockHost {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	host.EXPECT().SetNetworkSettings(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return host
}

func remotes(eps ...endpoint.Endpoint) *config.Configuration {
	return &config.Configuration{Remotes: eps}
}

func nextNotification(t *testing.T, h *harness) session.Notification {
	t.Helper()
	select {
	case n := <-h.events:
		return n
	case <-time.After(testutils.TestTimeout):
		t.Fatal("no notification")
		return session.Notification{}
	}
}

func TestStartConnects(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	applied := make(chan *netsettings.Settings, 1)
	host.EXPECT().SetNetworkSettings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s *netsettings.Settings) error {
			applied <- s
			return nil
		})

	engine := newFakeEngine()
	dialer := newScriptedDialer()
	local := remotes(udp("1.2.3.4", 1194))
	local.RoutingPolicies = []config.RoutingPolicy{config.RouteIPv4}
	h := newHarness(t, session.Config{ID: "test", Configuration: local, Dialer: dialer, Engine: engine, Host: host})

	done := h.start()
	require.NoError(t, waitErr(t, done))
	requireNoMore(t, done)
	assert.Equal(t, session.Connected, h.ctrl.State())

	settings := <-applied
	assert.Equal(t, "1.2.3.4", settings.TunnelRemoteAddress)
	require.NotNil(t, settings.IPv4)
	assert.Equal(t, "10.8.0.2", settings.IPv4.Address)
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194)}, dialer.history())

	assert.Equal(t, session.Notification{Type: session.NotificationStatus, Status: session.StatusConnecting}, nextNotification(t, h))
	assert.Equal(t, session.Notification{Type: session.NotificationStatus, Status: session.StatusConnected}, nextNotification(t, h))

	_, ok, err := h.state.LastError()
	require.NoError(t, err)
	assert.False(t, ok)

	pushed, err := h.state.ServerConfiguration()
	require.NoError(t, err)
	require.NotNil(t, pushed)
	assert.Equal(t, "10.8.0.2", pushed.IPv4.Address)
}

func TestStartTwice(t *testing.T) {
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))
	assert.ErrorIs(t, waitErr(t, h.start()), session.ErrAlreadyStarted)
}

func TestResolutionFailureAdvancesImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().LookupHost(gomock.Any(), "broken.example.com").Return(nil, errors.New("SERVFAIL"))

	timeouts := testTimeouts()
	timeouts.ReconnectionDelay = config.Duration(time.Hour)

	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("broken.example.com", 1194), udp("1.2.3.4", 1195)),
		Timeouts:      timeouts,
		Resolver:      resolver.New(backend, testutils.NewTestLogger()),
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})

	require.NoError(t, waitErr(t, h.start()))
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1195)}, dialer.history())
}

func TestResolvedEndpointsTriedInOrder(t *testing.T) {
	backend := staticBackend{
		"vpn.example.com": {
			{Address: "10.0.0.1"},
			{Address: "fd00::1", IsIPv6: true},
			{Address: "10.0.0.2"},
		},
	}
	dialer := newScriptedDialer()
	dialer.failWith(endpoint.New("10.0.0.1", endpoint.UDP4, 1194), tunnelerr.New(tunnelerr.LinkFailure, errors.New("refused")))

	h := newHarness(t, session.Config{
		Configuration: remotes(endpoint.New("vpn.example.com", endpoint.UDP4, 1194)),
		Resolver:      resolver.New(backend, testutils.NewTestLogger()),
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})

	require.NoError(t, waitErr(t, h.start()))
	assert.Equal(t, []endpoint.Endpoint{
		endpoint.New("10.0.0.1", endpoint.UDP4, 1194),
		endpoint.New("10.0.0.2", endpoint.UDP4, 1194),
	}, dialer.history(), "IPv6 records are filtered out for UDP4")

	_, ok, err := h.state.LastError()
	require.NoError(t, err)
	assert.False(t, ok, "success clears the last error")
}

func TestExhaustedEndpoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)

	dialer := mocks.NewMockDialer(ctrl)
	dialer.EXPECT().DialLink(gomock.Any(), udp("1.2.3.4", 1194)).
		Return(nil, tunnelerr.New(tunnelerr.LinkFailure, errors.New("unreachable")))
	dialer.EXPECT().DialLink(gomock.Any(), udp("5.6.7.8", 1194)).
		Return(nil, tunnelerr.New(tunnelerr.LinkFailure, errors.New("unreachable")))

	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          host,
	})

	done := h.start()
	err := waitErr(t, done)
	assert.ErrorIs(t, err, tunnelerr.ErrExhaustedEndpoints)
	requireNoMore(t, done)
	assert.Equal(t, session.Failed, h.ctrl.State())

	kind, ok, serr := h.state.LastError()
	require.NoError(t, serr)
	require.True(t, ok)
	assert.Equal(t, tunnelerr.ExhaustedEndpoints, kind)

	var failed *session.Notification
	for failed == nil {
		if n := nextNotification(t, h); n.Type == session.NotificationFailed {
			failed = &n
		}
	}
	assert.Equal(t, tunnelerr.ExhaustedEndpoints, failed.ErrorKind)
}

func TestAuthenticationFailureIsTerminal(t *testing.T) {
	engine := newFakeEngine()
	engine.onSetLink = func(link transport.Link) session.Event {
		return session.SessionStopped{
			Err:             tunnelerr.New(tunnelerr.AuthenticationFailure, errors.New("AUTH_FAILED")),
			ShouldReconnect: true,
		}
	}
	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})

	done := h.start()
	assert.ErrorIs(t, waitErr(t, done), tunnelerr.ErrAuthenticationFailure)
	requireNoMore(t, done)
	assert.Len(t, dialer.history(), 1, "no retry after an authentication failure")

	cleanups, _, _ := engine.counts()
	assert.Equal(t, 1, cleanups)
}

func TestNegotiationTimeoutAdvances(t *testing.T) {
	engine := newFakeEngine()
	engine.silent["1.2.3.4"] = true

	timeouts := testTimeouts()
	timeouts.Socket = config.Duration(50 * time.Millisecond)

	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Timeouts:      timeouts,
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})

	require.NoError(t, waitErr(t, h.start()))
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)}, dialer.history())

	cleanups, _, _ := engine.counts()
	assert.Equal(t, 1, cleanups)
	engine.mu.Lock()
	first := engine.links[0].(*fakeLink)
	engine.mu.Unlock()
	first.mu.Lock()
	assert.True(t, first.closed, "timed out link is closed")
	first.mu.Unlock()
}

func TestLinkUpgradeAfterDialFailure(t *testing.T) {
	dialer := newScriptedDialer()
	dialer.failWith(udp("1.2.3.4", 1194), tunnelerr.New(tunnelerr.LinkFailure, errors.New("filtered")))

	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Upgrade:       transport.TCPFallback{Port: 443},
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})

	require.NoError(t, waitErr(t, h.start()))
	assert.Equal(t, []endpoint.Endpoint{
		udp("1.2.3.4", 1194),
		endpoint.New("1.2.3.4", endpoint.TCP, 443),
	}, dialer.history())
}

func TestRoutingUnattainable(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)

	engine := newFakeEngine()
	engine.options = &config.Configuration{}

	local := remotes(udp("1.2.3.4", 1194))
	local.RoutingPolicies = []config.RoutingPolicy{config.RouteIPv4}
	h := newHarness(t, session.Config{Configuration: local, Dialer: newScriptedDialer(), Engine: engine, Host: host})

	done := h.start()
	assert.ErrorIs(t, waitErr(t, done), tunnelerr.ErrRoutingUnattainable)
	requireNoMore(t, done)

	engine.mu.Lock()
	require.Len(t, engine.shutdown, 1)
	assert.ErrorIs(t, engine.shutdown[0], tunnelerr.ErrRoutingUnattainable)
	engine.mu.Unlock()
}

func TestHostSettingsFailureIsTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	host.EXPECT().SetNetworkSettings(gomock.Any(), gomock.Any()).Return(errors.New("permission denied"))

	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        newFakeEngine(),
		Host:          host,
	})

	err := waitErr(t, h.start())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	h.waitState(t, session.Failed)
}

func TestBetterPathReconnects(t *testing.T) {
	engine := newFakeEngine()
	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	h.ctrl.NotifyBetterPath()
	require.Eventually(t, func() bool { return engine.linkCount() == 2 }, testutils.TestTimeout, testutils.TestInterval)
	h.waitState(t, session.Connected)

	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194), udp("1.2.3.4", 1194)}, dialer.history())
	_, _, reconnects := engine.counts()
	assert.Equal(t, 1, reconnects)

	_, ok, err := h.state.LastError()
	require.NoError(t, err)
	assert.False(t, ok, "a network change is never recorded as an error")
}

func TestBetterPathRebindsWhenSupported(t *testing.T) {
	engine := newFakeEngine()
	engine.canRebind = true
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	h.ctrl.NotifyBetterPath()
	require.Eventually(t, func() bool {
		_, rebinds, _ := engine.counts()
		return rebinds == 1
	}, testutils.TestTimeout, testutils.TestInterval)
	h.waitState(t, session.Connected)

	cleanups, _, _ := engine.counts()
	assert.Zero(t, cleanups, "a rebindable session keeps its state")
}

func TestBetterPathIgnoredWhileConnecting(t *testing.T) {
	engine := newFakeEngine()
	engine.silent["1.2.3.4"] = true
	timeouts := testTimeouts()
	timeouts.Socket = config.Duration(time.Hour)

	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Timeouts:      timeouts,
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	h.start()
	h.waitState(t, session.Negotiating)

	h.ctrl.NotifyBetterPath()
	time.Sleep(50 * time.Millisecond)
	_, _, reconnects := engine.counts()
	assert.Zero(t, reconnects)
	assert.Equal(t, session.Negotiating, h.ctrl.State())
}

func TestRecoverableStopReusesEndpoint(t *testing.T) {
	engine := newFakeEngine()
	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	engine.post(session.SessionStopped{ShouldReconnect: true})
	require.Eventually(t, func() bool { return engine.linkCount() == 2 }, testutils.TestTimeout, testutils.TestInterval)
	h.waitState(t, session.Connected)
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194), udp("1.2.3.4", 1194)}, dialer.history())
}

func TestLinkFailureWhileConnectedAdvances(t *testing.T) {
	engine := newFakeEngine()
	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	engine.post(session.SessionStopped{Err: tunnelerr.New(tunnelerr.LinkFailure, errors.New("connection reset"))})
	require.Eventually(t, func() bool { return engine.linkCount() == 2 }, testutils.TestTimeout, testutils.TestInterval)
	h.waitState(t, session.Connected)
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)}, dialer.history())
}

func TestTerminalAfterConnectCancelsTunnel(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	host.EXPECT().SetNetworkSettings(gomock.Any(), gomock.Any()).Return(nil)
	cancelled := make(chan error, 2)
	host.EXPECT().CancelTunnel(gomock.Any()).Do(func(err error) { cancelled <- err })

	engine := newFakeEngine()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          host,
	})
	done := h.start()
	require.NoError(t, waitErr(t, done))

	engine.post(session.SessionStopped{Err: tunnelerr.New(tunnelerr.ServerShutdown, errors.New("RESTART"))})
	assert.ErrorIs(t, waitErr(t, cancelled), tunnelerr.ErrServerShutdown)
	requireNoMore(t, cancelled)
	requireNoMore(t, done)
}

func TestUnmappedEngineErrorIsRecorded(t *testing.T) {
	engine := newFakeEngine()
	engine.onSetLink = func(link transport.Link) session.Event {
		return session.SessionStopped{Err: errors.New("bad HMAC")}
	}
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          permissiveHost(t),
	})

	err := waitErr(t, h.start())
	require.Error(t, err)
	assert.Equal(t, tunnelerr.EngineInternal, tunnelerr.Classify(err))

	kind, ok, serr := h.state.LastError()
	require.NoError(t, serr)
	require.True(t, ok)
	assert.Equal(t, tunnelerr.EngineInternal, kind)
}

func TestTransientLinkErrorReconnectsSameEndpoint(t *testing.T) {
	engine := newFakeEngine()
	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	done := h.start()
	require.NoError(t, waitErr(t, done))

	engine.post(session.SessionStopped{
		Err:             &net.OpError{Op: "read", Net: "udp", Err: io.EOF},
		ShouldReconnect: true,
	})
	require.Eventually(t, func() bool { return engine.linkCount() == 2 }, testutils.TestTimeout, testutils.TestInterval)
	h.waitState(t, session.Connected)
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194), udp("1.2.3.4", 1194)}, dialer.history())
	requireNoMore(t, done)

	_, ok, err := h.state.LastError()
	require.NoError(t, err)
	assert.False(t, ok, "cleared once the session is back")
}

func TestUnmappedEngineErrorRetriesWhenAsked(t *testing.T) {
	engine := newFakeEngine()
	var calls int
	engine.onSetLink = func(link transport.Link) session.Event {
		calls++
		if calls == 1 {
			return session.SessionStopped{Err: errors.New("bad HMAC"), ShouldReconnect: true}
		}
		return nil
	}
	timeouts := testTimeouts()
	timeouts.Socket = config.Duration(5 * time.Second)

	dialer := newScriptedDialer()
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Timeouts:      timeouts,
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	h.start()

	require.Eventually(t, func() bool { return engine.linkCount() == 2 }, testutils.TestTimeout, testutils.TestInterval)
	h.waitState(t, session.Negotiating)
	assert.Equal(t, []endpoint.Endpoint{udp("1.2.3.4", 1194), udp("1.2.3.4", 1194)}, dialer.history())

	kind, ok, err := h.state.LastError()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tunnelerr.EngineInternal, kind)
}

func TestLinkDialedAfterCloseIsReleased(t *testing.T) {
	dialer := newScriptedDialer()
	dialer.hold = make(chan struct{})
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})
	done := h.start()
	require.Eventually(t, func() bool { return len(dialer.history()) == 1 }, testutils.TestTimeout, testutils.TestInterval)

	h.ctrl.Close()
	assert.ErrorIs(t, waitErr(t, done), session.ErrClosed)
	close(dialer.hold)

	require.Eventually(t, func() bool {
		links := dialer.dialedLinks()
		return len(links) == 1 && links[0].isClosed()
	}, testutils.TestTimeout, testutils.TestInterval)
}

func TestStopWhileConnected(t *testing.T) {
	engine := newFakeEngine()
	engine.dataCount = &datacount.DataCount{Received: 10, Sent: 20}
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	done := h.stop()
	waitDone(t, done)
	requireNoMore(t, done)
	assert.Equal(t, session.Idle, h.ctrl.State())

	engine.mu.Lock()
	require.Len(t, engine.shutdown, 1)
	assert.NoError(t, engine.shutdown[0])
	engine.mu.Unlock()

	_, ok, err := h.state.DataCount()
	require.NoError(t, err)
	assert.False(t, ok, "counters are removed once disconnected")
}

func TestStopWatchdog(t *testing.T) {
	engine := newFakeEngine()
	engine.ignoreShutdown = true
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	began := time.Now()
	done := h.stop()
	waitDone(t, done)
	assert.GreaterOrEqual(t, time.Since(began), 150*time.Millisecond)
	assert.Equal(t, session.Idle, h.ctrl.State())
	requireNoMore(t, done)
}

func TestStopSuppressesReconnect(t *testing.T) {
	dialer := newScriptedDialer()
	dialer.failWith(udp("1.2.3.4", 1194), tunnelerr.New(tunnelerr.LinkFailure, errors.New("refused")))

	timeouts := testTimeouts()
	timeouts.ReconnectionDelay = config.Duration(100 * time.Millisecond)
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194), udp("5.6.7.8", 1194)),
		Timeouts:      timeouts,
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})

	started := h.start()
	h.waitState(t, session.Reconnecting)
	waitDone(t, h.stop())

	assert.ErrorIs(t, waitErr(t, started), session.ErrStopped)
	requireNoMore(t, started)

	time.Sleep(200 * time.Millisecond)
	assert.Len(t, dialer.history(), 1, "no dial after stop")
	assert.Equal(t, session.Idle, h.ctrl.State())
}

func TestRestartAfterFailure(t *testing.T) {
	dialer := newScriptedDialer()
	dialer.failWith(udp("1.2.3.4", 1194), tunnelerr.New(tunnelerr.LinkFailure, errors.New("refused")))
	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Dialer:        dialer,
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	})

	assert.ErrorIs(t, waitErr(t, h.start()), tunnelerr.ErrExhaustedEndpoints)

	dialer.failWith(udp("1.2.3.4", 1194), nil)
	require.NoError(t, waitErr(t, h.start()), "the cursor is rewound on every start")
}

func TestDataCountPublished(t *testing.T) {
	engine := newFakeEngine()
	engine.dataCount = &datacount.DataCount{Received: 1000, Sent: 500}
	timeouts := testTimeouts()
	timeouts.DataCountInterval = config.Duration(10 * time.Millisecond)

	h := newHarness(t, session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Timeouts:      timeouts,
		Dialer:        newScriptedDialer(),
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	engine.mu.Lock()
	engine.dataCount = &datacount.DataCount{Received: 2000, Sent: 800}
	engine.mu.Unlock()

	require.Eventually(t, func() bool {
		dc, ok, err := h.state.DataCount()
		return err == nil && ok && dc == datacount.DataCount{Received: 2000, Sent: 800}
	}, testutils.TestTimeout, testutils.TestInterval)
}

func TestDialTimeoutOnReliableLinkIsActivityTimeout(t *testing.T) {
	dialer := transport.DialerFunc(func(ctx context.Context, ep endpoint.Endpoint) (transport.Link, error) {
		if ep.Address == "1.2.3.4" {
			return nil, fmt.Errorf("dial: %w", context.DeadlineExceeded)
		}
		return &fakeLink{ep: ep}, nil
	})
	engine := newFakeEngine()
	h := newHarness(t, session.Config{
		Configuration: remotes(endpoint.New("1.2.3.4", endpoint.TCP, 443), endpoint.New("5.6.7.8", endpoint.TCP, 443)),
		Dialer:        dialer,
		Engine:        engine,
		Host:          permissiveHost(t),
	})
	require.NoError(t, waitErr(t, h.start()))

	engine.mu.Lock()
	defer engine.mu.Unlock()
	require.Len(t, engine.links, 1)
	assert.Equal(t, "5.6.7.8", engine.links[0].RemoteAddress(), "a timed out dial moves on to the next endpoint")
}

func TestNewControllerValidation(t *testing.T) {
	base := session.Config{
		Configuration: remotes(udp("1.2.3.4", 1194)),
		Resolver:      resolver.New(staticBackend{}, nil),
		Dialer:        newScriptedDialer(),
		Engine:        newFakeEngine(),
		Host:          permissiveHost(t),
	}

	cfg := base
	cfg.Engine = nil
	_, err := session.NewController(cfg)
	assert.Error(t, err)

	cfg = base
	cfg.Configuration = &config.Configuration{}
	_, err = session.NewController(cfg)
	assert.Error(t, err)

	c, err := session.NewController(base)
	require.NoError(t, err)
	c.Close()

	done := make(chan error, 1)
	c.Start(func(err error) { done <- err })
	assert.ErrorIs(t, <-done, session.ErrClosed)
}
