package config

import (
	"fmt"

	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/obfuscation"
)

// RoutingPolicy is a gateway flag applied to the tunnel.
type RoutingPolicy string

const (
	RouteIPv4  RoutingPolicy = "IPv4"
	RouteIPv6  RoutingPolicy = "IPv6"
	BlockLocal RoutingPolicy = "blockLocal"
)

// PullMask names an option category the client refuses from the server.
type PullMask string

const (
	PullRoutes PullMask = "routes"
	PullDNS    PullMask = "dns"
	PullProxy  PullMask = "proxy"
)

// DNSProtocol selects how the tunnel's DNS servers are reached.
type DNSProtocol string

const (
	DNSPlain DNSProtocol = "plain"
	DNSHTTPS DNSProtocol = "https"
	DNSTLS   DNSProtocol = "tls"
)

// IPv4Settings is the address pushed by the server.
type IPv4Settings struct {
	Address        string `yaml:"address" toml:"address"`
	AddressMask    string `yaml:"address_mask" toml:"address_mask"`
	DefaultGateway string `yaml:"default_gateway" toml:"default_gateway"`
}

// IPv6Settings is the address pushed by the server.
type IPv6Settings struct {
	Address             string `yaml:"address" toml:"address"`
	AddressPrefixLength int    `yaml:"address_prefix_length" toml:"address_prefix_length"`
	DefaultGateway      string `yaml:"default_gateway" toml:"default_gateway"`
}

// IPv4Route is an explicit route. An empty Gateway means the tunnel's
// default gateway.
type IPv4Route struct {
	Destination string `yaml:"destination" toml:"destination"`
	Mask        string `yaml:"mask" toml:"mask"`
	Gateway     string `yaml:"gateway,omitempty" toml:"gateway,omitempty"`
}

// IPv6Route is an explicit route. An empty Gateway means the tunnel's
// default gateway.
type IPv6Route struct {
	Destination  string `yaml:"destination" toml:"destination"`
	PrefixLength int    `yaml:"prefix_length" toml:"prefix_length"`
	Gateway      string `yaml:"gateway,omitempty" toml:"gateway,omitempty"`
}

// Proxy is an HTTP or HTTPS proxy server.
type Proxy struct {
	Address string `yaml:"address" toml:"address"`
	Port    uint16 `yaml:"port" toml:"port"`
}

func (p Proxy) String() string {
	return fmt.Sprintf("%s:%d", p.Address, p.Port)
}

// Obfuscation configures the packet transform.
type Obfuscation struct {
	Method string `yaml:"method,omitempty" toml:"method,omitempty"`
	Mask   string `yaml:"mask,omitempty" toml:"mask,omitempty"`
}

// Build turns the configured names into a Method.
func (o Obfuscation) Build() (obfuscation.Method, error) {
	return obfuscation.ParseMethod(o.Method, o.Mask)
}

// Configuration is the set of tunnel options. The same type describes the
// locally configured options and the options pushed by the server; unset
// fields are nil or empty so the two can be merged.
type Configuration struct {
	Remotes            []endpoint.Endpoint `yaml:"remotes,omitempty" toml:"remotes,omitempty"`
	RandomizeHostnames bool                `yaml:"randomize_hostnames,omitempty" toml:"randomize_hostnames,omitempty"`
	Obfuscation        Obfuscation         `yaml:"obfuscation,omitempty" toml:"obfuscation,omitempty"`
	MTU                int                 `yaml:"mtu,omitempty" toml:"mtu,omitempty"`

	IPv4            *IPv4Settings   `yaml:"ipv4,omitempty" toml:"ipv4,omitempty"`
	IPv6            *IPv6Settings   `yaml:"ipv6,omitempty" toml:"ipv6,omitempty"`
	Routes4         []IPv4Route     `yaml:"routes4,omitempty" toml:"routes4,omitempty"`
	Routes6         []IPv6Route     `yaml:"routes6,omitempty" toml:"routes6,omitempty"`
	RoutingPolicies []RoutingPolicy `yaml:"routing_policies,omitempty" toml:"routing_policies,omitempty"`
	NoPullMask      []PullMask      `yaml:"no_pull_mask,omitempty" toml:"no_pull_mask,omitempty"`

	DNSEnabled       *bool       `yaml:"dns_enabled,omitempty" toml:"dns_enabled,omitempty"`
	DNSProtocol      DNSProtocol `yaml:"dns_protocol,omitempty" toml:"dns_protocol,omitempty"`
	DNSServers       []string    `yaml:"dns_servers,omitempty" toml:"dns_servers,omitempty"`
	DNSHTTPSURL      string      `yaml:"dns_https_url,omitempty" toml:"dns_https_url,omitempty"`
	DNSTLSServerName string      `yaml:"dns_tls_server_name,omitempty" toml:"dns_tls_server_name,omitempty"`
	DNSDomain        string      `yaml:"dns_domain,omitempty" toml:"dns_domain,omitempty"`
	SearchDomains    []string    `yaml:"search_domains,omitempty" toml:"search_domains,omitempty"`

	ProxyEnabled       *bool    `yaml:"proxy_enabled,omitempty" toml:"proxy_enabled,omitempty"`
	HTTPProxy          *Proxy   `yaml:"http_proxy,omitempty" toml:"http_proxy,omitempty"`
	HTTPSProxy         *Proxy   `yaml:"https_proxy,omitempty" toml:"https_proxy,omitempty"`
	ProxyAutoConfigURL string   `yaml:"proxy_auto_config_url,omitempty" toml:"proxy_auto_config_url,omitempty"`
	ProxyBypassDomains []string `yaml:"proxy_bypass_domains,omitempty" toml:"proxy_bypass_domains,omitempty"`
}

// HasRoutingPolicy reports whether p is among the configured policies.
func (c *Configuration) HasRoutingPolicy(p RoutingPolicy) bool {
	for _, rp := range c.RoutingPolicies {
		if rp == p {
			return true
		}
	}
	return false
}

// Pulls reports whether options of category m are accepted from the server.
func (c *Configuration) Pulls(m PullMask) bool {
	for _, nm := range c.NoPullMask {
		if nm == m {
			return false
		}
	}
	return true
}

// IsDNSEnabled defaults to true.
func (c *Configuration) IsDNSEnabled() bool {
	return c.DNSEnabled == nil || *c.DNSEnabled
}

// IsProxyEnabled defaults to true.
func (c *Configuration) IsProxyEnabled() bool {
	return c.ProxyEnabled == nil || *c.ProxyEnabled
}

// ProcessedRemotes returns the remotes to connect to, with hostnames
// randomized when RandomizeHostnames is set.
func (c *Configuration) ProcessedRemotes() ([]endpoint.Endpoint, error) {
	remotes := make([]endpoint.Endpoint, 0, len(c.Remotes))
	for _, r := range c.Remotes {
		if c.RandomizeHostnames {
			prefixed, err := r.WithRandomPrefix(endpoint.DefaultRandomPrefixLength)
			if err != nil {
				return nil, err
			}
			r = prefixed
		}
		remotes = append(remotes, r)
	}
	return remotes, nil
}
