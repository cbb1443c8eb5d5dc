package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration for cla, stored in ~/.cla/config.toml.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Remote  RemoteConfig  `toml:"remote"`
	Server  ServerConfig  `toml:"server"`
}

// StorageConfig selects and tunes the key-value store.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" validate:"oneof=file sqlite memory"`
	// Path of the store. Empty = ~/.cla/store.json or ~/.cla/store.db.
	Path string `toml:"path"`
	// CacheSize is the number of read-through cache entries. 0 disables it.
	CacheSize int `toml:"cache_size" validate:"gte=0"`
	// CacheTTL is how long a cached value is served, e.g. "5m".
	CacheTTL string `toml:"cache_ttl" validate:"omitempty,duration"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// RemoteConfig holds the endpoints used by the fetch commands.
type RemoteConfig struct {
	CollectionLogURL  string `toml:"collection_log_url" validate:"required,url"`
	BackendURL        string `toml:"backend_url" validate:"omitempty,url"`
	APIToken          string `toml:"api_token"`
	RequestsPerMinute int    `toml:"requests_per_minute" validate:"gte=0"`
	Timeout           string `toml:"timeout" validate:"omitempty,duration"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

const (
	DefaultBackend           = "file"
	DefaultCacheTTL          = "5m"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultCollectionLogURL  = "https://api.collectionlog.net"
	DefaultRequestsPerMinute = 30
	DefaultTimeout           = "15s"
	DefaultAddr              = "127.0.0.1:8000"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: DefaultBackend, CacheSize: 64, CacheTTL: DefaultCacheTTL},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Remote: RemoteConfig{
			CollectionLogURL:  DefaultCollectionLogURL,
			RequestsPerMinute: DefaultRequestsPerMinute,
			Timeout:           DefaultTimeout,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# cla configuration - ~/.cla/config.toml
#
# All settings are optional. Every value can also be set through the
# environment (or a .env file), e.g. CLA_STORAGE_BACKEND=sqlite.

[storage]
# "file" keeps everything in one JSON document, "sqlite" in a database,
# "memory" forgets everything on exit.
backend = "file"
# Leave empty for ~/.cla/store.json (file) or ~/.cla/store.db (sqlite).
path = ""
# Read-through cache in front of the store. 0 disables it.
cache_size = 64
cache_ttl = "5m"

[log]
# trace, debug, info, warn or error
level = "info"
# console or json
format = "console"

[remote]
# collectionlog.net API used by: cla log fetch <username>
collection_log_url = "https://api.collectionlog.net"
# Catalog backend used by: cla catalog fetch
backend_url = ""
# Bearer token sent to the catalog backend, if it needs one.
api_token = ""
requests_per_minute = 30
timeout = "15s"

[server]
# Listen address for: cla serve
addr = "127.0.0.1:8000"
`

// Dir returns the cla data directory (~/.cla).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cla"), nil
}

// Load reads ~/.cla/config.toml, creating it with annotated defaults on
// first run, then applies environment overrides.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom is Load for an explicit config file path.
func LoadFrom(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Default(), err
	}
	cfg.fillDefaults()

	if err := Validate(cfg); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// fillDefaults replaces zero-value fields with built-in defaults so that a
// partially filled file still yields a usable Config.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.CacheTTL == "" {
		c.Storage.CacheTTL = d.Storage.CacheTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Remote.CollectionLogURL == "" {
		c.Remote.CollectionLogURL = d.Remote.CollectionLogURL
	}
	if c.Remote.Timeout == "" {
		c.Remote.Timeout = d.Remote.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
}

// envString maps CLA_* variables onto string fields.
func (c *Config) envString() map[string]*string {
	return map[string]*string{
		"CLA_STORAGE_BACKEND":           &c.Storage.Backend,
		"CLA_STORAGE_PATH":              &c.Storage.Path,
		"CLA_STORAGE_CACHE_TTL":         &c.Storage.CacheTTL,
		"CLA_LOG_LEVEL":                 &c.Log.Level,
		"CLA_LOG_FORMAT":                &c.Log.Format,
		"CLA_REMOTE_COLLECTION_LOG_URL": &c.Remote.CollectionLogURL,
		"CLA_REMOTE_BACKEND_URL":        &c.Remote.BackendURL,
		"CLA_REMOTE_API_TOKEN":          &c.Remote.APIToken,
		"CLA_REMOTE_TIMEOUT":            &c.Remote.Timeout,
		"CLA_SERVER_ADDR":               &c.Server.Addr,
	}
}

func applyEnv(c *Config) error {
	for key, field := range c.envString() {
		if v, ok := os.LookupEnv(key); ok {
			*field = strings.TrimSpace(v)
		}
	}
	ints := map[string]*int{
		"CLA_STORAGE_CACHE_SIZE":          &c.Storage.CacheSize,
		"CLA_REMOTE_REQUESTS_PER_MINUTE": &c.Remote.RequestsPerMinute,
	}
	for key, field := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("environment variable %s: %w", key, err)
		}
		*field = n
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", validateDuration)
	return v
}

func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(fl.Field().String())
	return err == nil
}

// Validate checks every section against its constraints.
func Validate(c Config) error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", strings.ToLower(e.Namespace()), e.Tag(), e.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// TTL parses CacheTTL. Invalid values yield 0.
func (s StorageConfig) TTL() time.Duration {
	d, err := time.ParseDuration(s.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// TimeoutDuration parses Timeout. Invalid values yield 0.
func (r RemoteConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// writeDefault creates the config directory and writes the annotated
// default config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
