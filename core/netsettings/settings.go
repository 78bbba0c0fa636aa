// Package netsettings merges local and server-pushed tunnel options into
// the settings handed to the host network stack.
package netsettings

import (
	"github.com/gocircum/tunnelcore/core/config"
)

// Route4 is an IPv4 route.
type Route4 struct {
	Destination string `yaml:"destination"`
	Mask        string `yaml:"mask"`
	Gateway     string `yaml:"gateway,omitempty"`
}

// Route6 is an IPv6 route.
type Route6 struct {
	Destination  string `yaml:"destination"`
	PrefixLength int    `yaml:"prefix_length"`
	Gateway      string `yaml:"gateway,omitempty"`
}

// IsDefault reports whether the route is 0.0.0.0/0.
func (r Route4) IsDefault() bool {
	return r.Destination == "0.0.0.0" && r.Mask == "0.0.0.0"
}

// IsDefault reports whether the route is ::/0.
func (r Route6) IsDefault() bool {
	return r.Destination == "::" && r.PrefixLength == 0
}

// IPv4 is the IPv4 side of the tunnel interface.
type IPv4 struct {
	Address        string   `yaml:"address"`
	SubnetMask     string   `yaml:"subnet_mask"`
	IncludedRoutes []Route4 `yaml:"included_routes"`
	ExcludedRoutes []Route4 `yaml:"excluded_routes"`
}

// IPv6 is the IPv6 side of the tunnel interface.
type IPv6 struct {
	Address             string   `yaml:"address"`
	NetworkPrefixLength int      `yaml:"network_prefix_length"`
	IncludedRoutes      []Route6 `yaml:"included_routes"`
	ExcludedRoutes      []Route6 `yaml:"excluded_routes"`
}

// DNS is the resolver configuration of the tunnel.
type DNS struct {
	Protocol      config.DNSProtocol `yaml:"protocol"`
	Servers       []string           `yaml:"servers"`
	ServerURL     string             `yaml:"server_url,omitempty"`
	ServerName    string             `yaml:"server_name,omitempty"`
	DomainName    string             `yaml:"domain_name,omitempty"`
	SearchDomains []string           `yaml:"search_domains,omitempty"`
	MatchDomains  []string           `yaml:"match_domains,omitempty"`
}

// Proxy is the proxy configuration of the tunnel.
type Proxy struct {
	HTTPS         *config.Proxy `yaml:"https,omitempty"`
	HTTP          *config.Proxy `yaml:"http,omitempty"`
	AutoConfigURL string        `yaml:"auto_config_url,omitempty"`
	ExceptionList []string      `yaml:"exception_list,omitempty"`
}

// Settings is the complete, effective network configuration for one
// negotiated session. It is always applied as a whole.
type Settings struct {
	TunnelRemoteAddress string `yaml:"tunnel_remote_address"`
	IPv4                *IPv4  `yaml:"ipv4,omitempty"`
	IPv6                *IPv6  `yaml:"ipv6,omitempty"`
	DNS                 *DNS   `yaml:"dns,omitempty"`
	Proxy               *Proxy `yaml:"proxy,omitempty"`
	MTU                 int    `yaml:"mtu,omitempty"`
	BlockLocalNetwork   bool   `yaml:"block_local_network,omitempty"`
}
