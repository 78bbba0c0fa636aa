package resolver

import (
	"context"
	"fmt"
	"net"

	"github.com/hashicorp/go-multierror"
	"github.com/miekg/dns"
)

// DNSBackend queries explicit upstream servers over UDP or TCP.
type DNSBackend struct {
	Servers []string
	client  *dns.Client
}

// NewDNSBackend creates a backend for the given servers. Servers without a
// port use 53. network is "udp" or "tcp".
func NewDNSBackend(servers []string, network string) *DNSBackend {
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		normalized = append(normalized, s)
	}
	return &DNSBackend{
		Servers: normalized,
		client:  &dns.Client{Net: network},
	}
}

// LookupHost implements Backend. Servers are tried in order and the first
// one that produces records wins.
func (b *DNSBackend) LookupHost(ctx context.Context, host string) ([]Record, error) {
	var errs *multierror.Error
	for _, server := range b.Servers {
		records, err := b.lookupOn(ctx, server, host)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", server, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return nil, ErrNoRecords
}

func (b *DNSBackend) lookupOn(ctx context.Context, server, host string) ([]Record, error) {
	var records []Record
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		in, _, err := b.client.ExchangeContext(ctx, newQuery(host, qtype), server)
		if err != nil {
			return nil, err
		}
		answers, err := recordsFromMsg(in)
		if err != nil {
			return nil, err
		}
		records = append(records, answers...)
	}
	return records, nil
}

func newQuery(host string, qtype uint16) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)
	m.RecursionDesired = true
	return m
}

func recordsFromMsg(in *dns.Msg) ([]Record, error) {
	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, nil
	default:
		return nil, fmt.Errorf("server answered %s", dns.RcodeToString[in.Rcode])
	}

	var records []Record
	for _, rr := range in.Answer {
		var s string
		switch a := rr.(type) {
		case *dns.A:
			s = a.A.String()
		case *dns.AAAA:
			s = a.AAAA.String()
		default:
			continue
		}
		if rec, ok := parseAnswerAddr(s); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

var _ Backend = (*DNSBackend)(nil)
