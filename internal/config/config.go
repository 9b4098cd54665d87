package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
)

// ShareAuto selects the platform opener as the share command.
const ShareAuto = "auto"

// Config holds all application configuration settings.
type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	Endpoint        string        `envconfig:"ENDPOINT" default:"https://tinyurl.com/api-create.php"`
	ServicePrefixes []string      `envconfig:"SERVICE_PREFIXES" default:"http://tinyurl.com/,https://tinyurl.com/"`
	DefaultURL      string        `envconfig:"DEFAULT_URL" default:"http://www.google.com/"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`

	ProbeTargets []string      `envconfig:"PROBE_TARGETS"`
	ProbeTimeout time.Duration `envconfig:"PROBE_TIMEOUT" default:"3s"`

	ShareCommand string `envconfig:"SHARE_COMMAND"`
	Clipboard    bool   `envconfig:"CLIPBOARD" default:"true"`

	MetricsFile string `envconfig:"METRICS_FILE"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint must be an absolute http(s) URL: %q", errpkg.ErrConfigInvalid, c.Endpoint)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: HTTP timeout must be positive: %s", errpkg.ErrConfigInvalid, c.HTTPTimeout)
	}

	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: probe timeout must be positive: %s", errpkg.ErrConfigInvalid, c.ProbeTimeout)
	}

	if strings.TrimSpace(c.DefaultURL) == "" {
		return fmt.Errorf("%w: default URL cannot be empty", errpkg.ErrConfigInvalid)
	}

	for _, p := range c.ServicePrefixes {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: service prefix cannot be empty", errpkg.ErrConfigInvalid)
		}
	}

	for _, target := range c.ProbeTargets {
		if _, _, err := net.SplitHostPort(target); err != nil {
			return fmt.Errorf("%w: probe target %q: %v", errpkg.ErrConfigInvalid, target, err)
		}
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format: %q", errpkg.ErrConfigInvalid, c.LogFormat)
	}

	return nil
}

// Probes returns the reachability targets. Without explicit targets the
// endpoint host is probed on its scheme's default port.
func (c *Config) Probes() []string {
	if len(c.ProbeTargets) > 0 {
		return c.ProbeTargets
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Hostname() == "" {
		return nil
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return []string{net.JoinHostPort(u.Hostname(), port)}
}
