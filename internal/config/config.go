// Package config provides configuration related utilities.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Default values for config.
const (
	defaultHost                   = "0.0.0.0"
	defaultPort                   = "3003"
	defaultRPCPort                = "3004"
	defaultPublicDir              = "public"
	defaultLogPath                = "logs/app.log"
	defaultLogLevel               = "info"
	defaultMaxLogSizeMB           = 5
	defaultMaxLogBackups          = 10
	defaultMaxLogFileLifetimeDays = 14
	defaultRedisKey               = "links"
	defaultMaxBodyBytes           = 1 << 20
	defaultTimeout                = 5 * time.Second
	defaultIdleTimeout            = 60 * time.Second
	defaultShutdownTimeout        = 30 * time.Second
	defaultHealthInterval         = 10 * time.Second
)

// Default variables.
var (
	// Default file storage path.
	DefaultFileStoragePath = filepath.Join("data", "links.json")
	// Default address to start the HTTP server.
	DefaultAddress = fmt.Sprintf("%s:%s", defaultHost, defaultPort)
	// Default address to start the gRPC health server.
	DefaultRPCAddress = fmt.Sprintf("%s:%s", defaultHost, defaultRPCPort)
)

// Config represents an application configuration.
type (
	Config struct {
		// The data source name (DSN) for connecting to the database.
		DSN string `yaml:"dsn" env:"DATABASE_DSN"`
		// Path to the SQLite database file.
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
		// Path to the JSON file holding the links.
		// Empty path with no DSN and no Redis means in memory storage.
		FileStoragePath string `yaml:"file_storage_path" env:"FILE_STORAGE_PATH"`
		// Directory with the static frontend.
		PublicDir string `yaml:"public_dir" env:"PUBLIC_DIR"`
		// TLSEnabled determines whether the server will be started in the TLS mode.
		TLSEnabled Enabled `yaml:"enable_https" env:"ENABLE_HTTPS"`
		// Subconfigs.
		Server    Server    `yaml:"http_server"`
		Redis     Redis     `yaml:"redis"`
		RPC       RPC       `yaml:"rpc"`
		Shortener Shortener `yaml:"shortener"`
		Logger    Logger    `yaml:"logger"`
	}
	// Config for server.
	Server struct {
		// Address to run the server.
		RunAddress *NetAddress `yaml:"server_address" env:"SERVER_ADDRESS"`
		// Read header timeout.
		Timeout time.Duration `yaml:"timeout"`
		// Idle timeout.
		IdleTimeout time.Duration `yaml:"idle_timeout"`
		// Shutdown timeout.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	}
	// Config for the redis link storage.
	Redis struct {
		Address  string `yaml:"address" env:"REDIS_ADDRESS"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		// Hash key the links are stored under.
		Key string `yaml:"key" env:"REDIS_KEY"`
	}
	// Config for the gRPC health server.
	RPC struct {
		Enabled Enabled     `yaml:"enabled" env:"ENABLE_RPC"`
		Address *NetAddress `yaml:"address" env:"RPC_ADDRESS"`
		// How often the storage health is checked.
		HealthInterval time.Duration `yaml:"health_interval"`
	}
	// Config for link creation.
	Shortener struct {
		// Derive a code from the URL when none is provided.
		GenerateCodes Enabled `yaml:"generate_codes" env:"GENERATE_CODES"`
		// Reject URLs that don't look like URLs.
		ValidateURLs Enabled `yaml:"validate_urls" env:"VALIDATE_URLS"`
		// Upper bound of the request body.
		MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"log_path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
		MaxAgeDays int `yaml:"max_age_days"`
	}
)

// Interface implementation guards.
var (
	_ flag.Value      = (*NetAddress)(nil)
	_ cleanenv.Setter = (*NetAddress)(nil)
	_ flag.Value      = (*Enabled)(nil)
	_ cleanenv.Setter = (*Enabled)(nil)
)

// NetAddress represents a network address with a host and a port.
type NetAddress string

// NewNetAddress returns a pointer to a new NetAddress with default Host and Port.
func NewNetAddress() *NetAddress {
	a := NetAddress(DefaultAddress)
	return &a
}

// String returns a string representation of the NetAddress in the form "host:port".
func (a *NetAddress) String() string {
	return string(*a)
}

// Set sets the host and port of the NetAddress from a string
// in the form "host:port". Empty host falls back to the default one.
func (a *NetAddress) Set(s string) error {
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")

	hp := strings.Split(s, ":")

	if len(hp) != 2 {
		return errors.New("need address in a form host:port")
	}

	if _, err := strconv.Atoi(hp[1]); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	if hp[0] != "" {
		*a = NetAddress(fmt.Sprintf("%s:%s", hp[0], hp[1]))
		return nil
	}

	*a = NetAddress(fmt.Sprintf("%s:%s", defaultHost, hp[1]))
	return nil
}

// SetValue implements cleanenv value setter.
func (a *NetAddress) SetValue(s string) error {
	return a.Set(s)
}

// Enabled implements general setter for boolean values.
// Implements cleanenv value setter.
type Enabled bool

// Set sets Enabled value from string.
func (e *Enabled) Set(s string) error {
	trueValues := []string{
		"true", "1", "t", "T", "TRUE", "True",
	}
	falseValues := []string{
		"false", "0", "f", "F", "FALSE", "False",
	}
	switch {
	case slices.Contains(trueValues, s):
		*e = true
	case slices.Contains(falseValues, s):
		*e = false
	default:
		msg := fmt.Sprintf(
			"invalid value: %q; need boolean value in form: true: %q false: %q",
			s,
			strings.Join(trueValues, "\", \""),
			strings.Join(falseValues, "\", \""),
		)
		return errors.New(msg)
	}
	return nil
}

// SetValue implements cleanenv value setter.
func (e *Enabled) SetValue(s string) error {
	return e.Set(s)
}

// String returns a string representation of the Enabled value.
func (e *Enabled) String() string {
	return fmt.Sprintf("%v", *e)
}

// IsBoolFlag lets the flag be passed without a value.
func (e *Enabled) IsBoolFlag() bool {
	return true
}

// newDefault returns the configuration with every default applied.
func newDefault() *Config {
	rpcAddress := NetAddress(DefaultRPCAddress)
	return &Config{
		FileStoragePath: DefaultFileStoragePath,
		PublicDir:       defaultPublicDir,
		Server: Server{
			RunAddress:      NewNetAddress(),
			Timeout:         defaultTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Redis: Redis{
			Key: defaultRedisKey,
		},
		RPC: RPC{
			Address:        &rpcAddress,
			HealthInterval: defaultHealthInterval,
		},
		Shortener: Shortener{
			MaxBodyBytes: defaultMaxBodyBytes,
		},
		Logger: Logger{
			Path:       defaultLogPath,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultMaxLogSizeMB,
			MaxBackups: defaultMaxLogBackups,
			MaxAgeDays: defaultMaxLogFileLifetimeDays,
		},
	}
}

// Order of loading configuration:
// 1. Config file (YAML, JSON supported)
// 2. Flags
// 3. Environment variables

// MustLoad returns an application configuration which is populated
// from the given configuration file, flags and environment variables.
func MustLoad() *Config {
	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load builds the configuration using the given flag set and arguments.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := newDefault()

	// Configuration file path.
	if configPath, set := os.LookupEnv("CONFIG"); set {
		if err := readFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	// Read given flags. If not provided use file values.
	fs.Var(cfg.Server.RunAddress, "a", "server start address in form host:port")
	fs.Var(&cfg.TLSEnabled, "s", "run the server in TLS mode")
	fs.StringVar(&cfg.FileStoragePath, "f", cfg.FileStoragePath, "file storage path")
	fs.StringVar(&cfg.PublicDir, "p", cfg.PublicDir, "static frontend directory")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "server data source name")
	fs.StringVar(&cfg.Redis.Address, "r", cfg.Redis.Address, "redis address in form host:port")
	fs.StringVar(&cfg.Logger.Level, "l", cfg.Logger.Level, "logging level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Read environment variables.
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return cfg, nil
}

func readFile(configPath string, cfg *Config) error {
	// Check if file exists.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %w", err)
	}

	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	// Support different file extensions.
	ext := filepath.Ext(configPath)
	switch ext {
	case ".yaml", ".yml":
		err = cleanenv.ParseYAML(file, cfg)
	case ".json":
		err = cleanenv.ParseJSON(file, cfg)
	default:
		return fmt.Errorf("unsupported configuration file extension: %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// NewForTest returns application configuration for testing.
// Storage is in memory unless the caller sets a path.
func NewForTest() *Config {
	cfg := newDefault()
	cfg.FileStoragePath = ""
	cfg.Logger.Level = "debug"
	return cfg
}
