package netsettings

import (
	"fmt"
	"net/netip"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/tunnelerr"
	"github.com/gocircum/tunnelcore/pkg/logging"
)

// Builder computes Settings from the local options and the options the
// server pushed during negotiation.
type Builder struct {
	RemoteAddress string
	Local         *config.Configuration
	Remote        *config.Configuration
	Logger        logging.Logger
}

// Build is a shortcut for a Builder without logging.
func Build(remoteAddress string, local, remote *config.Configuration) (*Settings, error) {
	return Builder{RemoteAddress: remoteAddress, Local: local, Remote: remote}.Build()
}

// Build returns the effective settings, or a routing unattainable error
// when gateway routing is requested and the server supplied no address
// for any requested family.
func (b Builder) Build() (*Settings, error) {
	if b.Local == nil {
		b.Local = &config.Configuration{}
	}
	if b.Remote == nil {
		b.Remote = &config.Configuration{}
	}
	if b.Logger == nil {
		b.Logger = logging.NewNop()
	}

	if b.isGateway() && !b.hasGateway() {
		return nil, tunnelerr.New(tunnelerr.RoutingUnattainable,
			fmt.Errorf("gateway routing requested but the server pushed no address for it"))
	}
	if b.isIPv4Gateway() && b.Remote.IPv4 == nil {
		b.Logger.Warn("Routing.IPv4: gateway requested without a pushed IPv4 address")
	}
	if b.isIPv6Gateway() && b.Remote.IPv6 == nil {
		b.Logger.Warn("Routing.IPv6: gateway requested without a pushed IPv6 address")
	}

	ipv4 := b.computedIPv4()
	ipv6 := b.computedIPv6()
	dns := b.computedDNS()
	proxy := b.computedProxy()

	// direct routes to the DNS servers
	if !b.isGateway() && dns != nil {
		for _, server := range dns.Servers {
			addr, err := netip.ParseAddr(server)
			if err != nil {
				continue
			}
			if addr.Is6() && !addr.Is4In6() {
				if ipv6 != nil {
					ipv6.IncludedRoutes = append([]Route6{{Destination: server, PrefixLength: 128, Gateway: b.Remote.IPv6.DefaultGateway}}, ipv6.IncludedRoutes...)
				}
			} else if ipv4 != nil {
				ipv4.IncludedRoutes = append([]Route4{{Destination: server, Mask: "255.255.255.255", Gateway: b.Remote.IPv4.DefaultGateway}}, ipv4.IncludedRoutes...)
			}
		}
	}

	settings := &Settings{
		TunnelRemoteAddress: b.RemoteAddress,
		IPv4:                ipv4,
		IPv6:                ipv6,
		DNS:                 dns,
		Proxy:               proxy,
		BlockLocalNetwork:   hasPolicy(b.routingPolicies(), config.BlockLocal),
	}
	if b.Local.MTU > 0 {
		settings.MTU = b.Local.MTU
	}
	return settings, nil
}

func (b Builder) pullRoutes() bool { return b.Local.Pulls(config.PullRoutes) }
func (b Builder) pullDNS() bool    { return b.Local.Pulls(config.PullDNS) }
func (b Builder) pullProxy() bool  { return b.Local.Pulls(config.PullProxy) }

func (b Builder) routingPolicies() []config.RoutingPolicy {
	if b.pullRoutes() && b.Remote.RoutingPolicies != nil {
		return b.Remote.RoutingPolicies
	}
	return b.Local.RoutingPolicies
}

func hasPolicy(policies []config.RoutingPolicy, p config.RoutingPolicy) bool {
	for _, rp := range policies {
		if rp == p {
			return true
		}
	}
	return false
}

func (b Builder) isIPv4Gateway() bool { return hasPolicy(b.routingPolicies(), config.RouteIPv4) }
func (b Builder) isIPv6Gateway() bool { return hasPolicy(b.routingPolicies(), config.RouteIPv6) }

// isGateway reports whether a default route is injected for any family.
func (b Builder) isGateway() bool {
	return b.isIPv4Gateway() || b.isIPv6Gateway()
}

func (b Builder) hasGateway() bool {
	return (b.isIPv4Gateway() && b.Remote.IPv4 != nil) || (b.isIPv6Gateway() && b.Remote.IPv6 != nil)
}

func (b Builder) allRoutes4() []config.IPv4Route {
	routes := append([]config.IPv4Route(nil), b.Local.Routes4...)
	if b.pullRoutes() {
		routes = append(routes, b.Remote.Routes4...)
	}
	return routes
}

func (b Builder) allRoutes6() []config.IPv6Route {
	routes := append([]config.IPv6Route(nil), b.Local.Routes6...)
	if b.pullRoutes() {
		routes = append(routes, b.Remote.Routes6...)
	}
	return routes
}

// Addresses always come from the server.
func (b Builder) computedIPv4() *IPv4 {
	pushed := b.Remote.IPv4
	if pushed == nil {
		return nil
	}
	s := &IPv4{Address: pushed.Address, SubnetMask: pushed.AddressMask, IncludedRoutes: []Route4{}, ExcludedRoutes: []Route4{}}

	if b.isIPv4Gateway() {
		s.IncludedRoutes = append(s.IncludedRoutes, Route4{Destination: "0.0.0.0", Mask: "0.0.0.0", Gateway: pushed.DefaultGateway})
		b.Logger.Info("Routing.IPv4: Setting default gateway", "gateway", logging.Masked(pushed.DefaultGateway))
	}
	for _, r := range b.allRoutes4() {
		gw := r.Gateway
		if gw == "" {
			gw = pushed.DefaultGateway
		}
		s.IncludedRoutes = append(s.IncludedRoutes, Route4{Destination: r.Destination, Mask: r.Mask, Gateway: gw})
		b.Logger.Info("Routing.IPv4: Adding route", "destination", logging.Masked(r.Destination), "mask", r.Mask, "gateway", logging.Masked(gw))
	}
	return s
}

func (b Builder) computedIPv6() *IPv6 {
	pushed := b.Remote.IPv6
	if pushed == nil {
		return nil
	}
	s := &IPv6{Address: pushed.Address, NetworkPrefixLength: pushed.AddressPrefixLength, IncludedRoutes: []Route6{}, ExcludedRoutes: []Route6{}}

	if b.isIPv6Gateway() {
		s.IncludedRoutes = append(s.IncludedRoutes, Route6{Destination: "::", PrefixLength: 0, Gateway: pushed.DefaultGateway})
		b.Logger.Info("Routing.IPv6: Setting default gateway", "gateway", logging.Masked(pushed.DefaultGateway))
	}
	for _, r := range b.allRoutes6() {
		gw := r.Gateway
		if gw == "" {
			gw = pushed.DefaultGateway
		}
		s.IncludedRoutes = append(s.IncludedRoutes, Route6{Destination: r.Destination, PrefixLength: r.PrefixLength, Gateway: gw})
		b.Logger.Info("Routing.IPv6: Adding route", "destination", logging.Masked(r.Destination), "prefix_length", r.PrefixLength, "gateway", logging.Masked(gw))
	}
	return s
}

func (b Builder) computedDNS() *DNS {
	if !b.Local.IsDNSEnabled() {
		return nil
	}

	var dns *DNS
	switch b.Local.DNSProtocol {
	case config.DNSHTTPS:
		if b.Local.DNSHTTPSURL != "" {
			dns = &DNS{Protocol: config.DNSHTTPS, Servers: b.Local.DNSServers, ServerURL: b.Local.DNSHTTPSURL}
			b.Logger.Info("DNS over HTTPS: Using servers", "servers", b.Local.DNSServers, "url", b.Local.DNSHTTPSURL)
		}
	case config.DNSTLS:
		if b.Local.DNSTLSServerName != "" {
			dns = &DNS{Protocol: config.DNSTLS, Servers: b.Local.DNSServers, ServerName: b.Local.DNSTLSServerName}
			b.Logger.Info("DNS over TLS: Using servers", "servers", b.Local.DNSServers, "server_name", b.Local.DNSTLSServerName)
		}
	}

	if dns == nil {
		servers := append([]string(nil), b.Local.DNSServers...)
		if b.pullDNS() {
			servers = append(servers, b.Remote.DNSServers...)
		}
		if len(servers) == 0 {
			b.Logger.Warn("DNS: No settings provided", "gateway", b.isGateway())
			return nil
		}
		dns = &DNS{Protocol: config.DNSPlain, Servers: servers}
		b.Logger.Info("DNS: Using servers", "servers", servers)
	}

	domain := b.Local.DNSDomain
	if b.pullDNS() && b.Remote.DNSDomain != "" {
		domain = b.Remote.DNSDomain
	}
	dns.DomainName = domain

	searchDomains := append([]string(nil), b.Local.SearchDomains...)
	if b.pullDNS() {
		searchDomains = append(searchDomains, b.Remote.SearchDomains...)
	}
	if len(searchDomains) > 0 {
		dns.SearchDomains = searchDomains
	}

	// split DNS: only name resolution goes through the tunnel
	if !b.isGateway() {
		dns.MatchDomains = append([]string{""}, searchDomains...)
	}
	return dns
}

func (b Builder) computedProxy() *Proxy {
	if !b.Local.IsProxyEnabled() {
		return nil
	}
	pick := func(remote, local *config.Proxy) *config.Proxy {
		if b.pullProxy() && remote != nil {
			return remote
		}
		return local
	}

	var proxy *Proxy
	if p := pick(b.Remote.HTTPSProxy, b.Local.HTTPSProxy); p != nil {
		proxy = &Proxy{HTTPS: p}
		b.Logger.Info("Routing: Setting HTTPS proxy", "proxy", p.String())
	}
	if p := pick(b.Remote.HTTPProxy, b.Local.HTTPProxy); p != nil {
		if proxy == nil {
			proxy = &Proxy{}
		}
		proxy.HTTP = p
		b.Logger.Info("Routing: Setting HTTP proxy", "proxy", p.String())
	}
	pac := b.Local.ProxyAutoConfigURL
	if b.pullProxy() && b.Remote.ProxyAutoConfigURL != "" {
		pac = b.Remote.ProxyAutoConfigURL
	}
	if pac != "" {
		if proxy == nil {
			proxy = &Proxy{}
		}
		proxy.AutoConfigURL = pac
		b.Logger.Info("Routing: Setting PAC", "url", pac)
	}

	if proxy != nil {
		bypass := append([]string(nil), b.Local.ProxyBypassDomains...)
		if b.pullProxy() {
			bypass = append(bypass, b.Remote.ProxyBypassDomains...)
		}
		if len(bypass) > 0 {
			proxy.ExceptionList = bypass
		}
	}
	return proxy
}
