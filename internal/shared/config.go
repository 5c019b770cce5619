package shared

import (
	"bytes"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// ExampleSecret is the placeholder session secret shipped in the example config.
// Anyone can sign tokens with it, so [Config.Validate] refuses it.
const ExampleSecret = "change-me"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Session     SessionConfig     `toml:"session"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains sign-in provider credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains Google OAuth2 client credentials.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Enabled reports whether both client credentials are present.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// DatabaseConfig contains database connection settings.
//
// Driver is "sqlite3" (cgo, mattn/go-sqlite3) or "sqlite" (pure Go, modernc.org/sqlite).
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	DebugErrors     bool     `toml:"debug_errors"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ShutdownGrace returns the shutdown timeout as a duration, defaulting to ten seconds.
func (s ServerConfig) ShutdownGrace() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// SessionConfig controls session token signing and the session cookie.
type SessionConfig struct {
	CookieName string `toml:"cookie_name"`
	Secret     string `toml:"secret"`
	TTLHours   int    `toml:"ttl_hours"`
	Secure     bool   `toml:"secure"`
}

// TTL returns the session lifetime, defaulting to thirty days.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(s.TTLHours) * time.Hour
}

// CatalogConfig contains list entry defaults.
type CatalogConfig struct {
	DefaultSource    string `toml:"default_source"`
	StrictCategories bool   `toml:"strict_categories"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Fields missing from the file keep the values of the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
//
// The placeholder session secret is replaced with a freshly generated one.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	secret, err := NewSecret()
	if err != nil {
		return err
	}
	data := bytes.Replace(exampleConf,
		[]byte(fmt.Sprintf("secret = %q", ExampleSecret)),
		[]byte(fmt.Sprintf("secret = %q", secret)), 1)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewSecret returns 32 random bytes, hex encoded, for signing session tokens.
func NewSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ApplyEnv loads the given dotenv files (missing files are skipped) and overrides secrets and deploy-specific values from the environment.
//
// Recognized variables: REELIST_SESSION_SECRET, REELIST_DB_PATH, GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, PORT.
func (c *Config) ApplyEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, f, err)
		}
	}

	if v := os.Getenv("REELIST_SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("REELIST_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		c.Credentials.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		c.Credentials.Google.ClientSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT %q is not a number", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("%w: session.secret is empty", ErrMissingConfig)
	}
	if c.Session.Secret == ExampleSecret {
		return fmt.Errorf("%w: session.secret is the example value; set REELIST_SESSION_SECRET or run setup", ErrInvalidConfig)
	}
	switch c.Database.Driver {
	case DriverCGO, DriverPureGo:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrMissingConfig)
	}
	return nil
}
