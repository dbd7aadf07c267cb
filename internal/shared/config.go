package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variables read by the spotx command. Client credentials are read by the spotify package.
const (
	EnvAccessToken  = "ACCESS_TOKEN"
	EnvRefreshToken = "REFRESH_TOKEN"
	EnvMarket       = "SPOTX_MARKET"
	EnvLogLevel     = "SPOTX_LOG_LEVEL"
	EnvRedirectURI  = "REDIRECT_URI"
)

// Config holds the session and runtime settings of the spotx command.
type Config struct {
	AccessToken  string
	RefreshToken string
	Market       string
	LogLevel     log.Level
	// CallbackAddr is the host:port the auth callback server listens on, taken from REDIRECT_URI.
	CallbackAddr string
	CallbackPath string
}

// LoadEnvFile loads variables from a dotenv file without overriding those already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadConfig resolves [Config] from the environment. lookupEnv defaults to [os.Getenv].
func LoadConfig(lookupEnv func(string) string) (*Config, error) {
	if lookupEnv == nil {
		lookupEnv = os.Getenv
	}

	ll, err := ParseLogLevel(lookupEnv(EnvLogLevel))
	if err != nil {
		return nil, err
	}

	config := &Config{
		AccessToken:  strings.TrimSpace(lookupEnv(EnvAccessToken)),
		RefreshToken: strings.TrimSpace(lookupEnv(EnvRefreshToken)),
		Market:       strings.TrimSpace(lookupEnv(EnvMarket)),
		LogLevel:     ll,
	}

	if raw := strings.TrimSpace(lookupEnv(EnvRedirectURI)); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: %s %q is not an absolute url", ErrInvalidConfig, EnvRedirectURI, raw)
		}
		config.CallbackAddr = u.Host
		config.CallbackPath = u.Path
		if config.CallbackPath == "" {
			config.CallbackPath = "/"
		}
	}

	return config, nil
}

// RequireSession reports [ErrNotAuthenticated] when no access token is configured.
func (c *Config) RequireSession() error {
	if c.AccessToken == "" {
		return fmt.Errorf("%w: set %s (run `spotx auth` to obtain one)", ErrNotAuthenticated, EnvAccessToken)
	}
	return nil
}
