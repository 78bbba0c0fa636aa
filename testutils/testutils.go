package testutils

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	socks5 "github.com/armon/go-socks5"
	"github.com/stretchr/testify/require"
)

// TestTimeout is the default timeout for operations in tests.
const TestTimeout = 5 * time.Second

// TestInterval is the default interval for polling in tests.
const TestInterval = 10 * time.Millisecond

// MockEchoServer is a simple TCP server that echoes back any data it receives.
type MockEchoServer struct {
	listener net.Listener
	addr     string

	mu    sync.Mutex
	conns []net.Conn
}

// NewMockEchoServer creates and starts a new MockEchoServer.
func NewMockEchoServer() *MockEchoServer {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	s := &MockEchoServer{
		listener: listener,
		addr:     listener.Addr().String(),
	}
	go s.run()
	return s
}

func (s *MockEchoServer) run() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return // Listener was closed
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go func(c net.Conn) {
			defer c.Close()
			_, _ = io.Copy(c, c)
		}(conn)
	}
}

// Addr returns the address of the server.
func (s *MockEchoServer) Addr() string {
	return s.addr
}

// Port returns the listening port.
func (s *MockEchoServer) Port() uint16 {
	return uint16(s.listener.Addr().(*net.TCPAddr).Port)
}

// DropConnections closes every accepted connection, simulating a server
// side reset.
func (s *MockEchoServer) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

// Close stops the server.
func (s *MockEchoServer) Close() {
	s.listener.Close()
	s.DropConnections()
}

// MockUDPEchoServer echoes every datagram back to its sender.
type MockUDPEchoServer struct {
	conn net.PacketConn
}

// NewMockUDPEchoServer creates and starts a new MockUDPEchoServer.
func NewMockUDPEchoServer() *MockUDPEchoServer {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		panic(err)
	}
	s := &MockUDPEchoServer{conn: conn}
	go s.run()
	return s
}

func (s *MockUDPEchoServer) run() {
	buf := make([]byte, 65535)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		_, _ = s.conn.WriteTo(buf[:n], addr)
	}
}

// Port returns the listening port.
func (s *MockUDPEchoServer) Port() uint16 {
	return uint16(s.conn.LocalAddr().(*net.UDPAddr).Port)
}

// Close stops the server.
func (s *MockUDPEchoServer) Close() {
	s.conn.Close()
}

// StartSOCKS5Server runs a go-socks5 server on a random local port until the
// test ends and returns its address.
func StartSOCKS5Server(t *testing.T) string {
	t.Helper()
	server, err := socks5.New(&socks5.Config{})
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() { _ = server.Serve(listener) }()
	return listener.Addr().String()
}

// ClosedPort returns a local TCP port with nothing listening on it.
func ClosedPort(t *testing.T) uint16 {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(listener.Addr().(*net.TCPAddr).Port)
	require.NoError(t, listener.Close())
	return port
}
