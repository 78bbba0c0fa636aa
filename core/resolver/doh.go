package resolver

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/miekg/dns"
)

const dnsMessageType = "application/dns-message"

// DoHBackend resolves over DNS-over-HTTPS using the RFC 8484 wire format.
type DoHBackend struct {
	URL    string
	client *http.Client
}

// NewDoHBackend creates a DoH backend. When bootstrapIP is set every
// connection goes to that address, so the DoH host itself is never looked
// up through the system resolver. TLS still validates the URL's host name.
func NewDoHBackend(serverURL, bootstrapIP string) (*DoHBackend, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DoH URL: %w", err)
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 10 * time.Second,
	}
	transport := &http.Transport{
		DialContext:     dialer.DialContext,
		TLSClientConfig: &tls.Config{ServerName: u.Hostname()},
	}
	if bootstrapIP != "" {
		port := u.Port()
		if port == "" {
			port = "443"
		}
		target := net.JoinHostPort(bootstrapIP, port)
		transport.DialContext = func(ctx context.Context, network, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, target)
		}
	}

	return &DoHBackend{
		URL: serverURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
	}, nil
}

// LookupHost implements Backend.
func (b *DoHBackend) LookupHost(ctx context.Context, host string) ([]Record, error) {
	var records []Record
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		in, err := b.exchange(ctx, newQuery(host, qtype))
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

func (b *DoHBackend) exchange(ctx context.Context, m *dns.Msg) (*dns.Msg, error) {
	// RFC 8484 recommends ID 0 for cache friendliness.
	m.Id = 0
	packed, err := m.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack DNS query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("failed to create DoH request: %w", err)
	}
	req.Header.Set("Content-Type", dnsMessageType)
	req.Header.Set("Accept", dnsMessageType)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform DoH request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DoH request failed with status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dns.MaxMsgSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read DoH response: %w", err)
	}
	in := new(dns.Msg)
	if err := in.Unpack(body); err != nil {
		return nil, fmt.Errorf("failed to decode DoH response: %w", err)
	}
	return in, nil
}

var _ Backend = (*DoHBackend)(nil)
