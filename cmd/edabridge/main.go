package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gaspardpetit/edabridge/internal/bridge"
	"github.com/gaspardpetit/edabridge/internal/config"
	"github.com/gaspardpetit/edabridge/internal/logx"
	"github.com/gaspardpetit/edabridge/internal/metrics"
	"github.com/gaspardpetit/edabridge/internal/tools"
)

var (
	version   = "dev"
	buildSHA  = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	var cfg config.ServerConfig
	// Resolve config with precedence: defaults < file < env < args
	cfg.SetDefaults()
	cfg.ApplyEnv() // allows CONFIG_FILE from env
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
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "edabridge version=%s sha=%s date=%s\n\n", version, buildSHA, buildDate)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Printf("edabridge version=%s sha=%s date=%s\n", version, buildSHA, buildDate)
		return
	}

	logx.Configure(cfg.LogLevel)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)
	metrics.SetBuildInfo("server", version)

	srv, err := bridge.StartOnAvailablePort(cfg.BasePort, cfg.PortWindow, bridge.Options{
		Host:           cfg.Host,
		Timeout:        cfg.RequestTimeout,
		AllowedOrigins: cfg.AllowedOrigins,
		AllowAnyOrigin: cfg.AllowAnyOrigin,
		PingInterval:   cfg.PingInterval,
		Gatherer:       reg,
	})
	if err != nil {
		logx.Log.Fatal().Err(err).Msg("bridge start")
	}
	if cfg.AllowAnyOrigin {
		logx.Log.Warn().Msg("origin check disabled")
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

	mcpSrv := tools.NewServer(srv, version)
	if cfg.MCPAddr != "" {
		httpSrv := &http.Server{Addr: cfg.MCPAddr, Handler: tools.NewHTTPHandler(mcpSrv), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			<-ctx.Done()
			if err := httpSrv.Shutdown(context.Background()); err != nil {
				logx.Log.Error().Err(err).Msg("mcp http shutdown")
			}
		}()
		go func() {
			logx.Log.Info().Str("addr", cfg.MCPAddr).Msg("mcp http server starting")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logx.Log.Error().Err(err).Msg("mcp http server error")
			}
		}()
	}

	logx.Log.Info().Int("port", srv.Port()).Str("version", version).Msg("bridge ready")
	if cfg.NoStdio {
		<-ctx.Done()
	} else if err := tools.ServeStdio(ctx, mcpSrv, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logx.Log.Error().Err(err).Msg("stdio transport")
	}
	cancel()

	stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Stop(stopCtx); err != nil {
		logx.Log.Error().Err(err).Msg("bridge shutdown")
	}
}
