package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBasePort is the first port of the bridge window.
const DefaultBasePort = 15168

// ServerConfig holds configuration for the bridge server process.
type ServerConfig struct {
	ConfigFile     string        `yaml:"-"`
	LogLevel       string        `yaml:"log_level"`
	Host           string        `yaml:"host"`
	BasePort       int           `yaml:"base_port"`
	PortWindow     int           `yaml:"port_window"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	AllowAnyOrigin bool          `yaml:"allow_any_origin"`
	MetricsAddr    string        `yaml:"metrics_addr"`
	// MCPAddr serves the tools over streamable HTTP in addition to stdio.
	MCPAddr string `yaml:"mcp_addr"`
	// NoStdio keeps the process running without the stdio tool transport.
	NoStdio bool `yaml:"no_stdio"`
}

// SetDefaults initializes c with built-in defaults.
func (c *ServerConfig) SetDefaults() {
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
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.ConfigFile == "" {
		c.ConfigFile = DefaultConfigPath("server.yaml")
	}
}

// ApplyEnv overlays environment variables onto the current config values.
func (c *ServerConfig) ApplyEnv() {
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
	if v := GetEnv("REQUEST_TIMEOUT", ""); v != "" {
		if d, err := seconds(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := GetEnv("PING_INTERVAL", ""); v != "" {
		if d, err := seconds(v); err == nil {
			c.PingInterval = d
		}
	}
	if v := GetEnv("ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitComma(v)
	}
	if v := GetEnv("ALLOW_ANY_ORIGIN", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AllowAnyOrigin = b
		}
	}
	if v := GetEnv("METRICS_PORT", ""); v != "" {
		c.MetricsAddr = listenAddr(v)
	}
	if v := GetEnv("MCP_ADDR", ""); v != "" {
		c.MCPAddr = listenAddr(v)
	}
	if v := GetEnv("NO_STDIO", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.NoStdio = b
		}
	}
}

// BindFlagsFromCurrent binds command line flags using the current config values as defaults.
func (c *ServerConfig) BindFlagsFromCurrent() {
	c.BindFlagSet(flag.CommandLine)
}

// BindFlagSet binds c to fs using the current values as defaults.
func (c *ServerConfig) BindFlagSet(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "server config file path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log verbosity (all, debug, info, warn, error, fatal, none)")
	fs.StringVar(&c.Host, "host", c.Host, "bridge listen host; must be a loopback address")
	fs.IntVar(&c.BasePort, "port", c.BasePort, "first port of the bridge port window")
	fs.IntVar(&c.PortWindow, "port-window", c.PortWindow, "number of ports tried from --port")
	fs.Func("request-timeout", "per-call timeout (seconds or Go duration)", func(v string) error {
		d, err := seconds(v)
		if err != nil {
			return err
		}
		c.RequestTimeout = d
		return nil
	})
	fs.Func("ping-interval", "keepalive ping period (seconds or Go duration; negative disables)", func(v string) error {
		d, err := seconds(v)
		if err != nil {
			return err
		}
		c.PingInterval = d
		return nil
	})
	fs.Func("allowed-origins", "comma separated list of origins allowed to connect", func(v string) error {
		c.AllowedOrigins = splitComma(v)
		return nil
	})
	fs.BoolVar(&c.AllowAnyOrigin, "allow-any-origin", c.AllowAnyOrigin, "accept any origin, including none (testing only)")
	fs.Func("metrics-port", "Prometheus metrics listen address or port (disabled when empty)", func(v string) error {
		c.MetricsAddr = listenAddr(v)
		return nil
	})
	fs.Func("mcp-addr", "also serve the MCP tools over streamable HTTP on this address or port", func(v string) error {
		c.MCPAddr = listenAddr(v)
		return nil
	})
	fs.BoolVar(&c.NoStdio, "no-stdio", c.NoStdio, "do not serve the MCP tools on stdin/stdout")
}

// LoadFile populates the config from a YAML file.
func (c *ServerConfig) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return err
	}
	c.MetricsAddr = listenAddr(c.MetricsAddr)
	c.MCPAddr = listenAddr(c.MCPAddr)
	return nil
}

// ConfigFlag scans args for --config or -config so the file can be loaded
// before the remaining flags are bound.
func ConfigFlag(args []string) (string, bool) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			break
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}
