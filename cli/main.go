package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gocircum/tunnelcore/core/config"
	"github.com/gocircum/tunnelcore/core/failover"
	"github.com/gocircum/tunnelcore/core/netsettings"
	"github.com/gocircum/tunnelcore/core/obfuscation"
	"github.com/gocircum/tunnelcore/core/resolver"
	"github.com/gocircum/tunnelcore/pkg/logging"
	"gopkg.in/yaml.v3"
)

func main() {
	// Manually parse global flags for logging, as they are needed before subcommands.
	var logLevel, logFormat string
	fs := flag.NewFlagSet("global", flag.ContinueOnError)
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	// Ignore errors, we'll just use defaults if flags are not there.
	_ = fs.Parse(os.Args)

	logging.InitLogger(logLevel, logFormat, nil)

	if len(os.Args) < 2 {
		logging.GetLogger().Error("expected 'endpoints', 'settings' or 'obfuscate' subcommands")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "endpoints":
		cmd := flag.NewFlagSet("endpoints", flag.ExitOnError)
		configFile := cmd.String("config", "tunnel.yaml", "Path to the tunnel YAML or TOML file.")
		addLogFlags(cmd)
		parseOrExit(cmd)
		runEndpoints(*configFile)

	case "settings":
		cmd := flag.NewFlagSet("settings", flag.ExitOnError)
		configFile := cmd.String("config", "tunnel.yaml", "Path to the tunnel YAML or TOML file.")
		pushedFile := cmd.String("pushed", "", "Path to a YAML file with the options pushed by the server.")
		remote := cmd.String("remote", "", "Address of the server the session runs to.")
		addLogFlags(cmd)
		parseOrExit(cmd)
		runSettings(*configFile, *pushedFile, *remote)

	case "obfuscate":
		cmd := flag.NewFlagSet("obfuscate", flag.ExitOnError)
		method := cmd.String("method", "xormask", "Obfuscation method (none, xormask, xorptrpos, reverse, obfuscate).")
		mask := cmd.String("mask", "", "Hex encoded mask.")
		inbound := cmd.Bool("inbound", false, "Treat the input as a received packet.")
		addLogFlags(cmd)
		parseOrExit(cmd)
		runObfuscate(*method, *mask, *inbound, cmd.Args())

	default:
		logging.GetLogger().Error("expected 'endpoints', 'settings' or 'obfuscate' subcommands", "command", os.Args[1])
		os.Exit(1)
	}
}

// addLogFlags adds the logging flags to help text; they are handled globally.
func addLogFlags(cmd *flag.FlagSet) {
	cmd.String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.String("log-format", "console", "Log format (console, json)")
}

func parseOrExit(cmd *flag.FlagSet) {
	if err := cmd.Parse(os.Args[2:]); err != nil {
		logging.GetLogger().Error("Failed to parse flags", "command", cmd.Name(), "error", err)
		os.Exit(1)
	}
}

func loadConfig(configFile string) *config.FileConfig {
	fc, err := config.LoadFileConfig(configFile)
	if err != nil {
		logging.GetLogger().Error("Failed to load tunnel config", "error", err)
		os.Exit(1)
	}
	logging.SetMasksPrivateData(fc.ShouldMaskPrivateData())
	return fc
}

// runEndpoints prints the endpoints in the order a session would try them.
func runEndpoints(configFile string) {
	logger := logging.GetLogger()
	fc := loadConfig(configFile)

	backend, err := resolver.NewBackend(fc.Resolver)
	if err != nil {
		logger.Error("Failed to create resolver", "error", err)
		os.Exit(1)
	}
	res := resolver.New(backend, logger)

	remotes, err := fc.Tunnel.ProcessedRemotes()
	if err != nil {
		logger.Error("Invalid remotes", "error", err)
		os.Exit(1)
	}
	cursor, err := failover.NewCursor(remotes)
	if err != nil {
		logger.Error("Failed to create cursor", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	fmt.Fprintln(w, "#\tREMOTE\tENDPOINT\tSTATUS")
	fmt.Fprintln(w, "-\t------\t--------\t------")

	ctx := context.Background()
	n := 0
	for !cursor.IsExhausted() {
		remote := cursor.CurrentRemote()
		original := remote.Original().Description()
		if remote.NeedsResolution() {
			if err := remote.Resolve(ctx, res, fc.Timeouts.DNS.Std()); err != nil {
				fmt.Fprintf(w, "-\t%s\t-\t%v\n", original, err)
			}
		}
		if ep, err := cursor.Current(); err == nil {
			n++
			fmt.Fprintf(w, "%d\t%s\t%s\tOK\n", n, original, ep.Description())
		}
		cursor.Advance()
	}
	w.Flush()
}

// runSettings prints the network settings a session would apply.
func runSettings(configFile, pushedFile, remote string) {
	logger := logging.GetLogger()
	fc := loadConfig(configFile)

	var pushed *config.Configuration
	if pushedFile != "" {
		buf, err := os.ReadFile(pushedFile)
		if err != nil {
			logger.Error("Failed to read pushed options", "error", err)
			os.Exit(1)
		}
		pushed, err = config.ParseConfiguration(buf)
		if err != nil {
			logger.Error("Invalid pushed options", "error", err)
			os.Exit(1)
		}
	}

	settings, err := netsettings.Builder{
		RemoteAddress: remote,
		Local:         &fc.Tunnel,
		Remote:        pushed,
		Logger:        logger,
	}.Build()
	if err != nil {
		logger.Error("Failed to compute network settings", "error", err)
		os.Exit(1)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		logger.Error("Failed to encode settings", "error", err)
		os.Exit(1)
	}
	_ = enc.Close()
}

// runObfuscate applies a method to each hex encoded packet argument.
func runObfuscate(name, mask string, inbound bool, packets []string) {
	logger := logging.GetLogger()
	method, err := obfuscation.ParseMethod(name, mask)
	if err != nil {
		logger.Error("Invalid obfuscation method", "error", err)
		os.Exit(1)
	}
	dir := obfuscation.Outbound
	if inbound {
		dir = obfuscation.Inbound
	}

	for _, p := range packets {
		buf, err := hex.DecodeString(strings.TrimPrefix(p, "0x"))
		if err != nil {
			logger.Error("Packet is not hex encoded", "packet", p, "error", err)
			os.Exit(1)
		}
		fmt.Println(hex.EncodeToString(method.Apply(buf, dir)))
	}
}
