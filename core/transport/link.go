package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/obfuscation"
)

type baseLink struct {
	conn     net.Conn
	ep       endpoint.Endpoint
	obf      obfuscation.Method
	closed   atomic.Bool
	closeErr error
	once     sync.Once
}

func (l *baseLink) Endpoint() endpoint.Endpoint {
	return l.ep
}

func (l *baseLink) RemoteAddress() string {
	return l.ep.Address
}

func (l *baseLink) Close() error {
	l.once.Do(func() {
		l.closed.Store(true)
		l.closeErr = l.conn.Close()
	})
	return l.closeErr
}

func (l *baseLink) ioError(err error) error {
	if l.closed.Load() {
		return ErrLinkClosed
	}
	return err
}

// udpLink carries one packet per datagram.
type udpLink struct {
	baseLink
	buf []byte
}

func newUDPLink(conn net.Conn, ep endpoint.Endpoint, obf obfuscation.Method) *udpLink {
	return &udpLink{
		baseLink: baseLink{conn: conn, ep: ep, obf: obf},
		buf:      make([]byte, MaxPacketSize),
	}
}

func (l *udpLink) IsReliable() bool {
	return false
}

func (l *udpLink) ReadPacket() ([]byte, error) {
	n, err := l.conn.Read(l.buf)
	if err != nil {
		return nil, l.ioError(err)
	}
	return l.obf.Apply(l.buf[:n], obfuscation.Inbound), nil
}

func (l *udpLink) WritePacket(p []byte) error {
	if l.closed.Load() {
		return ErrLinkClosed
	}
	if _, err := l.conn.Write(l.obf.Apply(p, obfuscation.Outbound)); err != nil {
		return l.ioError(err)
	}
	return nil
}

func (l *udpLink) WritePackets(ps [][]byte) error {
	for _, p := range ps {
		if err := l.WritePacket(p); err != nil {
			return err
		}
	}
	return nil
}

// tcpLink frames each packet with a two byte big endian length. Only the
// payload is obfuscated.
type tcpLink struct {
	baseLink
	writeMu sync.Mutex
	header  [2]byte
}

func newTCPLink(conn net.Conn, ep endpoint.Endpoint, obf obfuscation.Method) *tcpLink {
	return &tcpLink{baseLink: baseLink{conn: conn, ep: ep, obf: obf}}
}

func (l *tcpLink) IsReliable() bool {
	return true
}

func (l *tcpLink) ReadPacket() ([]byte, error) {
	if _, err := io.ReadFull(l.conn, l.header[:]); err != nil {
		return nil, l.ioError(err)
	}
	size := binary.BigEndian.Uint16(l.header[:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(l.conn, payload); err != nil {
		return nil, l.ioError(err)
	}
	return l.obf.Apply(payload, obfuscation.Inbound), nil
}

func (l *tcpLink) WritePacket(p []byte) error {
	return l.WritePackets([][]byte{p})
}

func (l *tcpLink) WritePackets(ps [][]byte) error {
	if l.closed.Load() {
		return ErrLinkClosed
	}
	size := 0
	for _, p := range ps {
		if len(p) > MaxPacketSize {
			return fmt.Errorf("packet of %d bytes exceeds frame limit", len(p))
		}
		size += 2 + len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range ps {
		out = binary.BigEndian.AppendUint16(out, uint16(len(p)))
		out = append(out, l.obf.Apply(p, obfuscation.Outbound)...)
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if _, err := l.conn.Write(out); err != nil {
		return l.ioError(err)
	}
	return nil
}

// IsClosedError reports whether err came from I/O on a link that was
// closed locally.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrLinkClosed)
}

var (
	_ Link = (*udpLink)(nil)
	_ Link = (*tcpLink)(nil)
)
