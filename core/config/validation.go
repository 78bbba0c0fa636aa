package config

import (
	"fmt"
	"net/netip"
	"net/url"

	"github.com/hashicorp/go-multierror"
)

// Validate checks the whole file and reports every problem found.
func (fc *FileConfig) Validate() error {
	var result *multierror.Error

	if fc.ID == "" {
		result = multierror.Append(result, fmt.Errorf("id must be set"))
	}
	if err := fc.Tunnel.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if len(fc.Tunnel.Remotes) == 0 {
		result = multierror.Append(result, fmt.Errorf("tunnel.remotes must list at least one remote"))
	}

	switch fc.Resolver.Backend {
	case ResolverSystem:
	case ResolverDNS:
		if len(fc.Resolver.Servers) == 0 {
			result = multierror.Append(result, fmt.Errorf("resolver.servers is required for the dns backend"))
		}
		if fc.Resolver.Network != "udp" && fc.Resolver.Network != "tcp" {
			result = multierror.Append(result, fmt.Errorf("resolver.network must be 'udp' or 'tcp', got %q", fc.Resolver.Network))
		}
	case ResolverDoH:
		if u, err := url.Parse(fc.Resolver.DoHURL); err != nil || u.Scheme != "https" || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("resolver.doh_url must be an https URL, got %q", fc.Resolver.DoHURL))
		}
		if fc.Resolver.BootstrapIP != "" {
			if _, err := netip.ParseAddr(fc.Resolver.BootstrapIP); err != nil {
				result = multierror.Append(result, fmt.Errorf("resolver.bootstrap_ip: %w", err))
			}
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown resolver.backend %q", fc.Resolver.Backend))
	}

	switch fc.Link.Upgrade {
	case "", UpgradeNone:
	case UpgradeTCPFallback:
		if fc.Link.TCPFallbackPort == 0 {
			result = multierror.Append(result, fmt.Errorf("link.tcp_fallback_port is required for the tcp_fallback upgrade"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown link.upgrade %q", fc.Link.Upgrade))
	}
	if fc.Link.DialRetries < 1 {
		result = multierror.Append(result, fmt.Errorf("link.dial_retries must be at least 1"))
	}
	if fc.Link.DialRate <= 0 || fc.Link.DialBurst < 1 {
		result = multierror.Append(result, fmt.Errorf("link.dial_rate and link.dial_burst must be positive"))
	}

	t := fc.Timeouts
	if t.DNS <= 0 || t.Socket <= 0 || t.Shutdown <= 0 {
		result = multierror.Append(result, fmt.Errorf("timeouts.dns_timeout, socket_timeout and shutdown_timeout must be positive"))
	}
	if t.ReconnectionDelay < 0 || t.DataCountInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("timeouts must not be negative"))
	}

	switch fc.SharedState.Backend {
	case StateMemory:
	case StateBadger:
		if fc.SharedState.Dir == "" {
			result = multierror.Append(result, fmt.Errorf("shared_state.dir is required for the badger backend"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown shared_state.backend %q", fc.SharedState.Backend))
	}

	return result.ErrorOrNil()
}

// Validate checks the tunnel options independently of where they came from.
func (c *Configuration) Validate() error {
	var result *multierror.Error

	if _, err := c.Obfuscation.Build(); err != nil {
		result = multierror.Append(result, fmt.Errorf("tunnel.obfuscation: %w", err))
	}
	if c.MTU < 0 {
		result = multierror.Append(result, fmt.Errorf("tunnel.mtu must not be negative"))
	}
	for _, p := range c.RoutingPolicies {
		if p != RouteIPv4 && p != RouteIPv6 && p != BlockLocal {
			result = multierror.Append(result, fmt.Errorf("unknown routing policy %q", p))
		}
	}
	for _, m := range c.NoPullMask {
		if m != PullRoutes && m != PullDNS && m != PullProxy {
			result = multierror.Append(result, fmt.Errorf("unknown no_pull_mask entry %q", m))
		}
	}
	switch c.DNSProtocol {
	case "", DNSPlain, DNSHTTPS, DNSTLS:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown dns_protocol %q", c.DNSProtocol))
	}
	for _, s := range c.DNSServers {
		if _, err := netip.ParseAddr(s); err != nil {
			result = multierror.Append(result, fmt.Errorf("dns server %q is not an IP address", s))
		}
	}

	return result.ErrorOrNil()
}
