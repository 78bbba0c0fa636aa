package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/endpoint"
	"github.com/gocircum/tunnelcore/core/resolver"
	"github.com/gocircum/tunnelcore/pkg/logging"
)

func main() {
	// Define command line flags
	host := flag.String("host", "", "Hostname to resolve")
	backend := flag.String("backend", "all", "Resolver backend: system, dns, doh or all")
	servers := flag.String("servers", "1.1.1.1:53,8.8.8.8:53", "Comma separated DNS servers for the dns backend")
	network := flag.String("network", "udp", "Transport for the dns backend (udp, tcp)")
	dohURL := flag.String("doh-url", "https://cloudflare-dns.com/dns-query", "Server URL for the doh backend")
	bootstrapIP := flag.String("bootstrap-ip", "", "Address to reach the DoH server without resolving its name")
	family := flag.String("family", "any", "Keep only records of this family: any, 4 or 6")
	queries := flag.Int("queries", 1, "Number of queries per backend; more than one prints timing statistics")
	timeout := flag.Duration("timeout", 3*time.Second, "Timeout of a single resolution")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	if *host == "" {
		// No host specified, print usage
		fmt.Println("tunnelcore DNS probe")
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	logging.InitLogger(level, "console", nil)

	proto, err := protocolFor(*family)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	backends := []string{*backend}
	if *backend == "all" {
		backends = []string{config.ResolverSystem, config.ResolverDNS, config.ResolverDoH}
	}

	failed := false
	for _, name := range backends {
		cfg := config.ResolverConfig{
			Backend:     name,
			Servers:     splitList(*servers),
			Network:     *network,
			DoHURL:      *dohURL,
			BootstrapIP: *bootstrapIP,
		}
		if !runProbe(cfg, *host, proto, *queries, *timeout, *verbose) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func runProbe(cfg config.ResolverConfig, host string, proto endpoint.Protocol, queries int, timeout time.Duration, verbose bool) bool {
	fmt.Printf("\n[%s] resolving %s...\n", cfg.Backend, host)

	b, err := resolver.NewBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s backend: %v\n", cfg.Backend, err)
		return false
	}
	res := resolver.New(b, logging.GetLogger())

	var totalTime time.Duration
	var successes, failures int
	var last []resolver.Record

	for i := 0; i < queries; i++ {
		start := time.Now()
		records, err := res.ResolveSync(context.Background(), host, timeout)
		elapsed := time.Since(start)

		if err != nil {
			failures++
			if verbose || queries == 1 {
				fmt.Printf("❌ Failed to resolve %s: %v\n", host, err)
			}
			continue
		}
		successes++
		totalTime += elapsed
		last = resolver.FilterCompatible(records, proto)
		if verbose {
			fmt.Printf("✅ Resolved %s to %s in %v\n", host, formatRecords(last), elapsed)
		}
	}

	if successes > 0 {
		fmt.Printf("Records: %s\n", formatRecords(last))
	}
	if queries > 1 {
		fmt.Printf("Total queries: %d\n", queries)
		fmt.Printf("Successful: %d\n", successes)
		fmt.Printf("Failed: %d\n", failures)
		if successes > 0 {
			fmt.Printf("Average resolution time: %v\n", totalTime/time.Duration(successes))
		}
	} else if successes > 0 {
		fmt.Printf("Resolution time: %v\n", totalTime)
	}
	return successes > 0
}

// Helper functions

func protocolFor(family string) (endpoint.Protocol, error) {
	switch family {
	case "any", "":
		return endpoint.Protocol{SocketType: endpoint.UDP}, nil
	case "4":
		return endpoint.Protocol{SocketType: endpoint.UDP4}, nil
	case "6":
		return endpoint.Protocol{SocketType: endpoint.UDP6}, nil
	}
	return endpoint.Protocol{}, fmt.Errorf("unknown family %q", family)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func formatRecords(records []resolver.Record) string {
	if len(records) == 0 {
		return "(none)"
	}
	strs := make([]string, len(records))
	for i, rec := range records {
		strs[i] = rec.Address
	}
	return strings.Join(strs, ", ")
}
