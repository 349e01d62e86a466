package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BLOG_"

// Config is the runtime configuration. Values are taken from flags, then
// BLOG_* environment variables, then the YAML file named by --config, then
// the defaults.
type Config struct {
	Addr           string         `yaml:"addr"`
	DiagAddr       string         `yaml:"diag_addr"`
	Database       DatabaseConfig `yaml:"database"`
	CookieSecret   string         `yaml:"cookie_secret"`
	CacheMaxAge    int            `yaml:"cache_max_age"`
	PageSize       int            `yaml:"page_size"`
	LogLevel       string         `yaml:"log_level"`
	LogDevelopment bool           `yaml:"log_development"`

	// Routes asks for the route documentation instead of serving.
	Routes bool `yaml:"-"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

func Default() Config {
	return Config{
		Addr:     ":3333",
		DiagAddr: ":9999",
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "blog.db",
		},
		CacheMaxAge: 6000,
		LogLevel:    "info",
	}
}

// Load reads a YAML file over cfg.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

type setting struct {
	flag    string
	env     string
	usage   string
	str     *string
	num     *int
	boolean *bool
}

func (c *Config) settings() []setting {
	return []setting{
		{flag: "addr", env: "ADDR", usage: "application address", str: &c.Addr},
		{flag: "diag-addr", env: "DIAG_ADDR", usage: "diagnostics address (metrics, health)", str: &c.DiagAddr},
		{flag: "db-driver", env: "DB_DRIVER", usage: "database driver: sqlite or mysql", str: &c.Database.Driver},
		{flag: "db-dsn", env: "DB_DSN", usage: "database data source name", str: &c.Database.DSN},
		{flag: "cookie-secret", env: "COOKIE_SECRET", usage: "secret for signing the visits cookie; empty disables signing", str: &c.CookieSecret},
		{flag: "cache-max-age", env: "CACHE_MAX_AGE", usage: "Cache-Control max-age of rendered pages, in seconds", num: &c.CacheMaxAge},
		{flag: "page-size", env: "PAGE_SIZE", usage: "articles shown on the blog page; 0 shows all", num: &c.PageSize},
		{flag: "log-level", env: "LOG_LEVEL", usage: "log level", str: &c.LogLevel},
		{flag: "log-development", env: "LOG_DEVELOPMENT", usage: "human readable development logging", boolean: &c.LogDevelopment},
		{flag: "routes", env: "ROUTES", usage: "print route documentation and exit", boolean: &c.Routes},
	}
}

// Parse builds the configuration from command line arguments and the
// environment, as seen through lookupEnv.
func Parse(name string, args []string, lookupEnv func(string) (string, bool)) (Config, error) {
	flags := Default()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	for _, s := range flags.settings() {
		switch {
		case s.str != nil:
			fs.StringVar(s.str, s.flag, *s.str, s.usage)
		case s.num != nil:
			fs.IntVar(s.num, s.flag, *s.num, s.usage)
		case s.boolean != nil:
			fs.BoolVar(s.boolean, s.flag, *s.boolean, s.usage)
		}
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()

	path := *configPath
	if !fs.Changed("config") {
		if v, ok := lookupEnv(EnvPrefix + "CONFIG"); ok {
			path = v
		}
	}
	if path != "" {
		if err := Load(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	fromFlags := flags.settings()
	for i, s := range cfg.settings() {
		if fs.Changed(s.flag) {
			s.copyFrom(fromFlags[i])

			continue
		}

		if v, ok := lookupEnv(EnvPrefix + s.env); ok {
			if err := s.set(v); err != nil {
				return Config{}, fmt.Errorf("%s%s: %w", EnvPrefix, s.env, err)
			}
		}
	}

	return cfg, nil
}

func (s setting) copyFrom(o setting) {
	switch {
	case s.str != nil:
		*s.str = *o.str
	case s.num != nil:
		*s.num = *o.num
	case s.boolean != nil:
		*s.boolean = *o.boolean
	}
}

func (s setting) set(v string) error {
	switch {
	case s.str != nil:
		*s.str = v
	case s.num != nil:
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*s.num = n
	case s.boolean != nil:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*s.boolean = b
	}

	return nil
}
