package endpoint

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// SocketType is a transport plus an optional address family restriction.
type SocketType string

const (
	UDP  SocketType = "UDP"
	UDP4 SocketType = "UDP4"
	UDP6 SocketType = "UDP6"
	TCP  SocketType = "TCP"
	TCP4 SocketType = "TCP4"
	TCP6 SocketType = "TCP6"
)

// Family restricts the address family of resolved records.
type Family int

const (
	AnyFamily Family = iota
	IPv4Only
	IPv6Only
)

// ParseSocketType accepts the upper-case names only.
func ParseSocketType(s string) (SocketType, error) {
	switch st := SocketType(s); st {
	case UDP, UDP4, UDP6, TCP, TCP4, TCP6:
		return st, nil
	}
	return "", fmt.Errorf("unknown socket type %q", s)
}

// IsReliable reports whether the socket type is connection oriented.
func (s SocketType) IsReliable() bool {
	return s == TCP || s == TCP4 || s == TCP6
}

// Family returns the address family the socket type is restricted to.
func (s SocketType) Family() Family {
	switch s {
	case UDP4, TCP4:
		return IPv4Only
	case UDP6, TCP6:
		return IPv6Only
	}
	return AnyFamily
}

// Network returns the name used by the net package, e.g. "udp4".
func (s SocketType) Network() string {
	return strings.ToLower(string(s))
}

// Reliable maps the socket type to its TCP counterpart keeping the family.
func (s SocketType) Reliable() SocketType {
	switch s {
	case UDP:
		return TCP
	case UDP4:
		return TCP4
	case UDP6:
		return TCP6
	}
	return s
}

// Protocol is the socket type and port of an endpoint.
type Protocol struct {
	SocketType SocketType
	Port       uint16
}

// IsReliable reports whether the protocol is connection oriented.
func (p Protocol) IsReliable() bool {
	return p.SocketType.IsReliable()
}

func (p Protocol) String() string {
	return string(p.SocketType) + ":" + strconv.Itoa(int(p.Port))
}

func netJoin(address string, port uint16) string {
	return net.JoinHostPort(address, strconv.Itoa(int(port)))
}
