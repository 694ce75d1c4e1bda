package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

const (
	BackendOasisScan    = "oasisscan"
	BackendOasisMonitor = "oasismonitor"
)

// Config contains all configuration parameters for the application.
// Note: the keystore password is prompted at runtime and stored in memory - use GetKeystorePasswordBytes()
type Config struct {
	Port                string        `envconfig:"PORT" default:"8080"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	Network             string        `envconfig:"NETWORK" default:"mainnet"`
	NetworksFile        string        `envconfig:"NETWORKS_FILE"`
	Backend             string        `envconfig:"BACKEND" default:"oasisscan"`
	Extension           bool          `envconfig:"EXTENSION" default:"false"`
	WalletFilePath      string        `envconfig:"WALLET_FILE_PATH"`
	AllowedOrigins      []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5000"`
	RateLimitRPS        float64       `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst      int           `envconfig:"RATE_LIMIT_BURST" default:"20"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	ImportAccountsCount int           `envconfig:"IMPORT_ACCOUNTS_COUNT" default:"5"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads and validates configuration from environment variables
// without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Validate checks value ranges that envconfig cannot express
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOasisScan, BackendOasisMonitor:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Network == "" {
		return errors.New("network must be set")
	}
	if c.RateLimitRPS <= 0 {
		return errors.New("RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_BURST must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.ImportAccountsCount <= 0 {
		return errors.New("IMPORT_ACCOUNTS_COUNT must be positive")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetWalletFilePath returns path to the keystore file, empty when persistence is off
func GetWalletFilePath() string {
	return Get().WalletFilePath
}

var passwordBytes []byte

// PromptForPassword prompts the user for the keystore password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter keystore password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	SetPassword(raw)
	clear(raw)
	return nil
}

// SetPassword stores a copy of password in memory
func SetPassword(password []byte) {
	clear(passwordBytes)
	passwordBytes = make([]byte, len(password))
	copy(passwordBytes, password)
}

// GetKeystorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeystorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
