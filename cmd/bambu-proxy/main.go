// cmd/bambu-proxy/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cdracars/OBS-Print-Progress/internal/config"
	"github.com/cdracars/OBS-Print-Progress/internal/feed"
	"github.com/cdracars/OBS-Print-Progress/internal/server"
	"github.com/cdracars/OBS-Print-Progress/internal/status"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bambu-proxy:", err)
		os.Exit(1)
	}
}

// ---- flags ----

// flags holds the command line knobs. File values fill the config first;
// overlay then applies only the flags the user actually set, so an
// explicit zero (say --verify-tls=false against a file saying true)
// still wins.
type flags struct {
	configPath  string
	host        string
	serial      string
	accessCode  string
	mqttPort    int
	keepalive   int
	verifyTLS   bool
	httpHost    string
	httpPort    int
	allowOrigin string
	debug       bool
}

func (f *flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "YAML config file (optional; explicit flags override it)")
	fs.StringVar(&f.host, "host", "", "printer hostname or IP")
	fs.StringVar(&f.serial, "serial", "", "printer serial number")
	fs.StringVar(&f.accessCode, "access-code", "", "printer LAN access code")
	fs.IntVar(&f.mqttPort, "mqtt-port", 0, "printer MQTT port (default 8883)")
	fs.IntVar(&f.keepalive, "keepalive", 0, "MQTT keepalive seconds (default 15)")
	fs.BoolVar(&f.verifyTLS, "verify-tls", false, "verify the printer TLS certificate")
	fs.StringVar(&f.httpHost, "http-host", "", "status endpoint bind address (default 127.0.0.1)")
	fs.IntVar(&f.httpPort, "http-port", 0, "status endpoint port (default 9876)")
	fs.StringVar(&f.allowOrigin, "allow-origin", "", "Access-Control-Allow-Origin value (default *)")
	fs.BoolVar(&f.debug, "debug", false, "debug logging")
}

func (f *flags) overlay(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(set *flag.Flag) {
		switch set.Name {
		case "host":
			cfg.Bridge.Printer.Host = f.host
		case "serial":
			cfg.Bridge.Printer.Serial = f.serial
		case "access-code":
			cfg.Bridge.Printer.AccessCode = f.accessCode
		case "mqtt-port":
			cfg.Bridge.Printer.MQTTPort = f.mqttPort
		case "keepalive":
			cfg.Bridge.Printer.KeepaliveS = f.keepalive
		case "verify-tls":
			cfg.Bridge.Printer.VerifyTLS = f.verifyTLS
		case "http-host":
			cfg.Bridge.HTTP.Host = f.httpHost
		case "http-port":
			cfg.Bridge.HTTP.Port = f.httpPort
		case "allow-origin":
			cfg.Bridge.HTTP.AllowOrigin = f.allowOrigin
		}
	})
}

// ---- run ----

func run() error {
	var fl flags
	fl.register(flag.CommandLine)
	flag.Parse()

	// --------------------
	// Logging
	// --------------------

	level := slog.LevelInfo
	if fl.debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// --------------------
	// Resolve config: file first, explicit flags on top
	// --------------------

	cfg := &config.Config{}
	if fl.configPath != "" {
		loaded, err := config.Load(fl.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fl.overlay(flag.CommandLine, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Build store, feed and server
	// --------------------

	store := status.NewStore()

	feedClient, closeFeed, err := feed.Build(cfg.Bridge.Printer, store, log)
	if err != nil {
		return err
	}
	defer closeFeed()

	srv, err := server.New(server.Config{
		Host:        cfg.Bridge.HTTP.Host,
		Port:        cfg.Bridge.HTTP.Port,
		AllowOrigin: cfg.Bridge.HTTP.AllowOrigin,
	}, store, log)
	if err != nil {
		return err
	}

	// --------------------
	// Run until signalled
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("bridge starting",
		"printer", cfg.Bridge.Printer.Host,
		"serial", cfg.Bridge.Printer.Serial,
		"http", fmt.Sprintf("%s:%d", cfg.Bridge.HTTP.Host, cfg.Bridge.HTTP.Port))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return feedClient.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("bridge stopped")
	return nil
}
