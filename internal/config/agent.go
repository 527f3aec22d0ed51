package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// AgentConfig holds configuration for the bridge client process that
// answers requests on behalf of the CAD host.
type AgentConfig struct {
	ConfigFile   string        `yaml:"-"`
	LogLevel     string        `yaml:"log_level"`
	Host         string        `yaml:"host"`
	BasePort     int           `yaml:"base_port"`
	PortWindow   int           `yaml:"port_window"`
	Origin       string        `yaml:"origin"`
	HostURL      string        `yaml:"host_url"`
	HostTimeout  time.Duration `yaml:"host_timeout"`
	ScanInterval time.Duration `yaml:"scan_interval"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ClientName   string        `yaml:"client_name"`
	MetricsAddr  string        `yaml:"metrics_addr"`
}

// SetDefaults initializes c with built-in defaults.
func (c *AgentConfig) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.BasePort == 0 {
		c.BasePort = DefaultBasePort
	}
	if c.PortWindow == 0 {
		c.PortWindow = 20
	}
	if c.Origin == "" {
		c.Origin = "http://localhost"
	}
	if c.HostURL == "" {
		c.HostURL = "http://127.0.0.1:7777/"
	}
	if c.HostTimeout == 0 {
		c.HostTimeout = time.Minute
	}
	if c.ScanInterval == 0 {
		c.ScanInterval = 10 * time.Second
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 2 * time.Second
	}
	if c.ClientName == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "agent-" + uuid.NewString()[:8]
		}
		c.ClientName = host
	}
	if c.ConfigFile == "" {
		c.ConfigFile = DefaultConfigPath("agent.yaml")
	}
}

// ApplyEnv overlays environment variables onto the current config values.
func (c *AgentConfig) ApplyEnv() {
	if v := GetEnv("CONFIG_FILE", ""); v != "" {
		c.ConfigFile = v
	}
	if v := GetEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := GetEnv("BRIDGE_HOST", ""); v != "" {
		c.Host = v
	}
	if v := GetEnv("EDA_WS_PORT", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BasePort = n
		}
	}
	if v := GetEnv("PORT_WINDOW", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PortWindow = n
		}
	}
	if v := GetEnv("BRIDGE_ORIGIN", ""); v != "" {
		c.Origin = v
	}
	if v := GetEnv("HOST_URL", ""); v != "" {
		c.HostURL = v
	}
	if v := GetEnv("HOST_TIMEOUT", ""); v != "" {
		if d, err := seconds(v); err == nil {
			c.HostTimeout = d
		}
	}
	if v := GetEnv("SCAN_INTERVAL", ""); v != "" {
		if d, err := seconds(v); err == nil {
			c.ScanInterval = d
		}
	}
	if v := GetEnv("DIAL_TIMEOUT", ""); v != "" {
		if d, err := seconds(v); err == nil {
			c.DialTimeout = d
		}
	}
	if v := GetEnv("CLIENT_NAME", ""); v != "" {
		c.ClientName = v
	}
	if v := GetEnv("METRICS_PORT", ""); v != "" {
		c.MetricsAddr = listenAddr(v)
	}
}

// BindFlagsFromCurrent binds command line flags using the current config values as defaults.
func (c *AgentConfig) BindFlagsFromCurrent() {
	c.BindFlagSet(flag.CommandLine)
}

// BindFlagSet binds c to fs using the current values as defaults.
func (c *AgentConfig) BindFlagSet(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "agent config file path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log verbosity (all, debug, info, warn, error, fatal, none)")
	fs.StringVar(&c.Host, "host", c.Host, "host the bridge servers listen on")
	fs.IntVar(&c.BasePort, "port", c.BasePort, "first port of the bridge port window")
	fs.IntVar(&c.PortWindow, "port-window", c.PortWindow, "number of ports scanned from --port")
	fs.StringVar(&c.Origin, "origin", c.Origin, "Origin header presented to bridge servers")
	fs.StringVar(&c.HostURL, "host-url", c.HostURL, "CAD host scripting endpoint")
	fs.Func("host-timeout", "timeout for one CAD host call (seconds or Go duration)", func(v string) error {
		d, err := seconds(v)
		if err != nil {
			return err
		}
		c.HostTimeout = d
		return nil
	})
	fs.Func("scan-interval", "rescan period once connected (seconds or Go duration)", func(v string) error {
		d, err := seconds(v)
		if err != nil {
			return err
		}
		c.ScanInterval = d
		return nil
	})
	fs.Func("dial-timeout", "timeout for one port probe (seconds or Go duration)", func(v string) error {
		d, err := seconds(v)
		if err != nil {
			return err
		}
		c.DialTimeout = d
		return nil
	})
	fs.StringVar(&c.ClientName, "client-name", c.ClientName, "client display name shown in logs")
	fs.Func("metrics-port", "Prometheus metrics listen address or port (disabled when empty)", func(v string) error {
		c.MetricsAddr = listenAddr(v)
		return nil
	})
}

// LoadFile populates the config from a YAML file.
func (c *AgentConfig) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return err
	}
	c.MetricsAddr = listenAddr(c.MetricsAddr)
	return nil
}
