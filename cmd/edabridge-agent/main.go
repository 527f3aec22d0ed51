package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gaspardpetit/edabridge/internal/cad"
	"github.com/gaspardpetit/edabridge/internal/client"
	"github.com/gaspardpetit/edabridge/internal/config"
	"github.com/gaspardpetit/edabridge/internal/handlers"
	"github.com/gaspardpetit/edabridge/internal/logx"
	"github.com/gaspardpetit/edabridge/internal/metrics"
)

var (
	version   = "dev"
	buildSHA  = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	var cfg config.AgentConfig
	// Resolve config with precedence: defaults < file < env < args
	cfg.SetDefaults()
	cfg.ApplyEnv()
	if p, ok := config.ConfigFlag(os.Args[1:]); ok {
		cfg.ConfigFile = p
	}
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.ConfigFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			logx.Log.Fatal().Err(err).Str("path", cfg.ConfigFile).Msg("load config")
		}
	}
	cfg.ApplyEnv()
	cfg.BindFlagsFromCurrent()
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "edabridge-agent version=%s sha=%s date=%s\n\n", version, buildSHA, buildDate)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Printf("edabridge-agent version=%s sha=%s date=%s\n", version, buildSHA, buildDate)
		return
	}

	logx.Configure(cfg.LogLevel)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics.Register(reg)
	metrics.SetBuildInfo("agent", version)

	table, err := handlers.Default(&cad.HTTPHost{URL: cfg.HostURL, Timeout: cfg.HostTimeout})
	if err != nil {
		logx.Log.Fatal().Err(err).Msg("build handler table")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logx.Log.Info().Msg("termination requested")
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		addr, err := metrics.Serve(ctx, cfg.MetricsAddr, reg)
		if err != nil {
			logx.Log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server")
		} else {
			logx.Log.Info().Str("addr", addr).Msg("metrics server starting")
		}
	}

	c := client.New(table, client.Options{
		Host:         cfg.Host,
		BasePort:     cfg.BasePort,
		Window:       cfg.PortWindow,
		Origin:       cfg.Origin,
		DialTimeout:  cfg.DialTimeout,
		ScanInterval: cfg.ScanInterval,
		OnConnect: func(port int) {
			logx.Log.Info().Int("port", port).Msg("bridge connected")
		},
		OnDisconnect: func(port int) {
			logx.Log.Info().Int("port", port).Msg("bridge disconnected")
		},
	})
	logx.Log.Info().
		Str("client_id", c.ID()).
		Str("client_name", cfg.ClientName).
		Int("base_port", cfg.BasePort).
		Int("window", cfg.PortWindow).
		Int("methods", len(table.Methods())).
		Str("version", version).
		Msg("agent starting")

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logx.Log.Error().Err(err).Msg("agent stopped")
	}
	c.Close()
}
