package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds runtime settings for the storefront server.
//
// Precedence: defaults, then environment, then command-line flags.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string

	// APIURL is the base URL of the backend REST API.
	APIURL string

	// SessionSecret signs session cookies and CSRF tokens. The default is
	// only acceptable for local development.
	SessionSecret string

	// ViewsDir holds the django templates.
	ViewsDir string

	// AssetsDir is served at /public.
	AssetsDir string

	// Debug enables verbose logging and relaxes cookie security so plain
	// HTTP works locally.
	Debug bool
}

func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.APIURL = "http://localhost:3001"
	c.SessionSecret = "icoltex-dev-secret-change-me-in-production"
	c.ViewsDir = "./views"
	c.AssetsDir = "./public"
	c.Debug = false
}

// Load builds the effective configuration from defaults, environment
// variables (ADDR, API_URL, SESSION_SECRET, VIEWS_DIR, ASSETS_DIR, DEBUG)
// and flags.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("VIEWS_DIR"); v != "" {
		cfg.ViewsDir = v
	}
	if v := os.Getenv("ASSETS_DIR"); v != "" {
		cfg.AssetsDir = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = parsed
		}
	}
}

func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to listen on")
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the backend API")
	fs.StringVar(&cfg.ViewsDir, "views", cfg.ViewsDir, "directory holding the templates")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging and insecure cookies")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
