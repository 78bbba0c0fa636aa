// Package endpoint models the remotes a tunnel can connect to.
//
// An Endpoint is an address (literal IP or hostname) paired with a
// socket type and port. Its text form is address:SOCKETTYPE:port, for
// example vpn.example.com:UDP4:1194 or 2001:db8::1:TCP:443. IPv6
// addresses are written without brackets.
package endpoint

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strconv"

	"github.com/gocircum/tunnelcore/pkg/logging"
	"github.com/gocircum/tunnelcore/pkg/securerandom"
)

// DefaultRandomPrefixLength is the number of random bytes prepended to
// hostnames when hostname randomization is enabled.
const DefaultRandomPrefixLength = 6

// ErrInvalidEndpoint is returned when a text endpoint cannot be parsed.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

var endpointRx = regexp.MustCompile(`^([^\s]+):(UDP[46]?|TCP[46]?):(\d+)$`)

// Endpoint is a remote address and the protocol used to reach it.
type Endpoint struct {
	Address  string
	Protocol Protocol
}

// New returns an Endpoint.
func New(address string, socketType SocketType, port uint16) Endpoint {
	return Endpoint{Address: address, Protocol: Protocol{SocketType: socketType, Port: port}}
}

// Parse parses the address:SOCKETTYPE:port form.
func Parse(raw string) (Endpoint, error) {
	m := endpointRx.FindStringSubmatch(raw)
	if m == nil {
		return Endpoint{}, fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
	}
	socketType, err := ParseSocketType(m[2])
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, raw, err)
	}
	port, err := strconv.ParseUint(m[3], 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: bad port", ErrInvalidEndpoint, raw)
	}
	return New(m[1], socketType, uint16(port)), nil
}

// IsIPv4 reports whether the address is a literal IPv4 address.
func (e Endpoint) IsIPv4() bool {
	addr, err := netip.ParseAddr(e.Address)
	return err == nil && addr.Is4()
}

// IsIPv6 reports whether the address is a literal IPv6 address.
func (e Endpoint) IsIPv6() bool {
	addr, err := netip.ParseAddr(e.Address)
	return err == nil && addr.Is6()
}

// IsHostname reports whether the address needs DNS resolution.
func (e Endpoint) IsHostname() bool {
	return !e.IsIPv4() && !e.IsIPv6()
}

// WithRandomPrefix returns a copy whose hostname is prefixed with length
// random bytes in hex. Literal addresses are returned unchanged.
func (e Endpoint) WithRandomPrefix(length int) (Endpoint, error) {
	if !e.IsHostname() {
		return e, nil
	}
	prefix, err := securerandom.HexToken(length)
	if err != nil {
		return Endpoint{}, fmt.Errorf("failed to randomize hostname: %w", err)
	}
	return Endpoint{Address: prefix + "." + e.Address, Protocol: e.Protocol}, nil
}

// HostPort returns the address in a form accepted by net.Dial.
func (e Endpoint) HostPort() string {
	return netJoin(e.Address, e.Protocol.Port)
}

// String returns the parseable text form.
func (e Endpoint) String() string {
	return e.Address + ":" + e.Protocol.String()
}

// Description is String with the address redacted when private data
// masking is on.
func (e Endpoint) Description() string {
	return logging.Masked(e.Address) + ":" + e.Protocol.String()
}

// MarshalText implements encoding.TextMarshaler.
func (e Endpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Both yaml.v3 and
// BurntSushi/toml pick this up for config files.
func (e *Endpoint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
