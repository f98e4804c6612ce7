// Package config loads portal settings from the embedded defaults, an optional TOML file
// and the process environment, in that order of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

var (
	ErrMissingJWTSecret        = errors.New("no JWT_SECRET provided")
	ErrMissingConnectionString = errors.New("missing DB_CONNECTION_STRING in environment variables")
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Email    EmailConfig    `toml:"email"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	App      AppConfig      `toml:"app"`
}

type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	PprofAddr string `toml:"pprof_addr"`
	PublicURL string `toml:"public_url"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	ConnectionString string        `toml:"connection_string"`
	MaxOpenConns     int           `toml:"max_open_conns"`
	MaxIdleConns     int           `toml:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `toml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret          string       `toml:"jwt_secret"`
	Issuer             string       `toml:"issuer"`
	SecureCookies      bool         `toml:"secure_cookies"`
	LoginRatePerMinute int          `toml:"login_rate_per_minute"`
	Google             GoogleConfig `toml:"google"`
}

type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

// Enabled reports whether Google sign-in has credentials.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type EmailConfig struct {
	Address      string `toml:"address"`
	Password     string `toml:"password"`
	SMTPHost     string `toml:"smtp_host"`
	SMTPPort     string `toml:"smtp_port"`
	SalesInbox   string `toml:"sales_inbox"`
	SupportInbox string `toml:"support_inbox"`
}

type StorageConfig struct {
	AvatarsDir    string `toml:"avatars_dir"`
	PublicBaseURL string `toml:"public_base_url"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// AppConfig describes the installed release and the simulated device behaviour.
type AppConfig struct {
	Version      string        `toml:"version"`
	PairingDelay time.Duration `toml:"pairing_delay"`
}

// Default returns the configuration parsed from the embedded example file.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &cfg
}

// LoadFile reads a TOML file on top of the embedded defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	// .env is optional, the process environment is used as is when it is absent
	_ = godotenv.Load()
	cfg.applyEnv()
	return cfg, nil
}

// Validate checks the settings required to serve traffic.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Database.ConnectionString == "" {
		return ErrMissingConnectionString
	}
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Host, "HOST")
	setInt(&c.Server.Port, "PORT")
	setString(&c.Server.PprofAddr, "PPROF_ADDR")
	setString(&c.Server.PublicURL, "PUBLIC_URL")

	setString(&c.Database.ConnectionString, "DB_CONNECTION_STRING")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setBool(&c.Auth.SecureCookies, "SECURE_COOKIES")
	setInt(&c.Auth.LoginRatePerMinute, "LOGIN_RATE_PER_MINUTE")
	setString(&c.Auth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&c.Auth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&c.Auth.Google.RedirectURL, "GOOGLE_REDIRECT_URL")

	setString(&c.Email.Address, "EMAIL_ADDRESS")
	setString(&c.Email.Password, "EMAIL_PASSWORD")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setString(&c.Email.SMTPPort, "SMTP_PORT")
	setString(&c.Email.SalesInbox, "SALES_INBOX")
	setString(&c.Email.SupportInbox, "SUPPORT_INBOX")

	setString(&c.Storage.AvatarsDir, "AVATARS_DIR")
	setString(&c.Storage.PublicBaseURL, "STORAGE_PUBLIC_URL")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.App.Version, "APP_VERSION")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
