// Package config provides functionality for managing configuration options
// for the console and the API stub using command-line flags, a JSON config
// file, a .env file and environment variables.
//
// Precedence, lowest first: defaults, config file, .env, environment,
// explicitly set flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Duration is a time.Duration that reads "800ms"-style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("duration must be a string or milliseconds: %w", err)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Options holds the configuration values for the application.
type Options struct {
	// APIURL is the base address of the shelter REST API.
	APIURL string `json:"api_url"`

	// SessionFile is the JSON file backing the session store.
	SessionFile string `json:"session_file"`

	// RedisAddr, when set, moves the session store to Redis.
	RedisAddr string `json:"redis_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`

	// CacheTTL is how long the animal list stays fresh.
	CacheTTL Duration `json:"cache_ttl"`

	// RefreshDelay is the pause between a write confirmation and the re-list.
	RefreshDelay Duration `json:"refresh_delay"`

	// RequestTimeout bounds each HTTP call; zero disables it.
	RequestTimeout Duration `json:"request_timeout"`

	// CAFile, CertFile and KeyFile configure TLS for https API URLs.
	CAFile   string `json:"ca_file"`
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`

	// Address is the listen address of the API stub (ip:port).
	Address string `json:"address"`

	// AdminUser and AdminPassword are the API stub's admin credentials.
	AdminUser     string `json:"admin_user"`
	AdminPassword string `json:"admin_password"`

	// DatabaseDSN, when set, stores the API stub's data in PostgreSQL.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the config file.
	Config string `json:"-"`

	// EnvFile is the path to an optional .env file.
	EnvFile string `json:"-"`
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		APIURL:         "http://localhost:5000",
		SessionFile:    "session.json",
		LogLevel:       "warn",
		CacheTTL:       Duration(60 * time.Second),
		RefreshDelay:   Duration(800 * time.Millisecond),
		RequestTimeout: Duration(15 * time.Second),
		Address:        "localhost:5000",
		AdminUser:      "admin",
		AdminPassword:  "password",
		Config:         "config.json",
		EnvFile:        ".env",
	}
}

// Flags binds the options to a flag set.
type Flags struct {
	fs   *pflag.FlagSet
	vals *Options
}

// Register defines the flags on fs and returns a handle for Load.
func Register(fs *pflag.FlagSet) *Flags {
	d := Default()
	v := &Options{}
	fs.StringVar(&v.APIURL, "url", d.APIURL, "shelter API base URL")
	fs.StringVar(&v.SessionFile, "session", d.SessionFile, "session file path")
	fs.StringVar(&v.RedisAddr, "redis", "", "redis address for the session store (optional)")
	fs.StringVar(&v.LogLevel, "log-level", d.LogLevel, "log level: debug|info|warn|error")
	fs.DurationVar((*time.Duration)(&v.CacheTTL), "cache-ttl", time.Duration(d.CacheTTL), "animal cache time-to-live")
	fs.DurationVar((*time.Duration)(&v.RefreshDelay), "refresh-delay", time.Duration(d.RefreshDelay), "pause before re-listing after a write")
	fs.DurationVar((*time.Duration)(&v.RequestTimeout), "timeout", time.Duration(d.RequestTimeout), "HTTP request timeout (0 disables)")
	fs.StringVar(&v.CAFile, "ca", "", "path to CA cert for https API URLs")
	fs.StringVar(&v.CertFile, "cert", "", "path to client cert")
	fs.StringVar(&v.KeyFile, "key", "", "path to client key")
	fs.StringVarP(&v.Address, "address", "a", d.Address, "API stub listen address (ip:port)")
	fs.StringVar(&v.AdminUser, "admin-user", d.AdminUser, "API stub admin username")
	fs.StringVar(&v.AdminPassword, "admin-password", d.AdminPassword, "API stub admin password")
	fs.StringVarP(&v.DatabaseDSN, "dsn", "d", "", "API stub PostgreSQL DSN (optional, in-memory when empty)")
	fs.StringVarP(&v.Config, "config", "c", d.Config, "path to config file")
	fs.StringVar(&v.EnvFile, "env-file", d.EnvFile, "path to .env file")
	return &Flags{fs: fs, vals: v}
}

// Load resolves the final options. Call it after the flag set is parsed.
func (f *Flags) Load() (*Options, error) {
	options := Default()

	options.Config = f.vals.Config
	if configPath := os.Getenv("CONFIG"); configPath != "" && !f.fs.Changed("config") {
		options.Config = configPath
	}
	if err := loadFile(options); err != nil {
		return nil, err
	}

	options.EnvFile = f.vals.EnvFile
	if options.EnvFile != "" {
		if err := godotenv.Load(options.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error while reading env file: %w", err)
		}
	}
	if err := applyEnv(options); err != nil {
		return nil, err
	}

	f.applyChanged(options)
	return options, nil
}

func loadFile(options *Options) error {
	if options.Config == "" {
		return nil
	}
	if _, err := os.Stat(options.Config); err != nil {
		return nil
	}
	data, err := os.ReadFile(options.Config)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func applyEnv(options *Options) error {
	str := map[string]*string{
		"SHELTER_API_URL":        &options.APIURL,
		"SHELTER_SESSION_FILE":   &options.SessionFile,
		"SHELTER_REDIS_ADDR":     &options.RedisAddr,
		"LOG_LEVEL":              &options.LogLevel,
		"SERVER_ADDRESS":         &options.Address,
		"SHELTER_ADMIN_USER":     &options.AdminUser,
		"SHELTER_ADMIN_PASSWORD": &options.AdminPassword,
		"DATABASE_DSN":           &options.DatabaseDSN,
	}
	for key, dst := range str {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("SHELTER_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHELTER_CACHE_TTL: %w", err)
		}
		options.CacheTTL = Duration(ttl)
	}
	return nil
}

func (f *Flags) applyChanged(options *Options) {
	set := func(name string, apply func()) {
		if f.fs.Changed(name) {
			apply()
		}
	}
	v := f.vals
	set("url", func() { options.APIURL = v.APIURL })
	set("session", func() { options.SessionFile = v.SessionFile })
	set("redis", func() { options.RedisAddr = v.RedisAddr })
	set("log-level", func() { options.LogLevel = v.LogLevel })
	set("cache-ttl", func() { options.CacheTTL = v.CacheTTL })
	set("refresh-delay", func() { options.RefreshDelay = v.RefreshDelay })
	set("timeout", func() { options.RequestTimeout = v.RequestTimeout })
	set("ca", func() { options.CAFile = v.CAFile })
	set("cert", func() { options.CertFile = v.CertFile })
	set("key", func() { options.KeyFile = v.KeyFile })
	set("address", func() { options.Address = v.Address })
	set("admin-user", func() { options.AdminUser = v.AdminUser })
	set("admin-password", func() { options.AdminPassword = v.AdminPassword })
	set("dsn", func() { options.DatabaseDSN = v.DatabaseDSN })
}
