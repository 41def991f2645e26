package app

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/editauth/internal/editauth/permission"
	"github.com/aussiebroadwan/editauth/pkg/authsdk"
	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/joho/godotenv"
)

// PlaceholderSecret is the signing secret used when none is configured. It
// is fine for local runs and refused in prod.
const PlaceholderSecret = "testsecret"

type Config struct {
	SigningSecret    cryptox.Secret // Optional: HS256 key (default: placeholder, refused in prod)
	PermissionSecret cryptox.Secret // Optional: bearer secret for the metadata service (default: SigningSecret)

	PermissionURL        string        // Required: metadata service base URL
	PermissionAuthHeader string        // Optional: header carrying the bearer secret (default: Authorized)
	PermissionTimeout    time.Duration // Optional: outbound timeout (default: 5s)
	PermissionRetries    int           // Optional: extra attempts on transport failure (default: 0)
	PermissionRetryWait  time.Duration // Optional: initial retry backoff (default: 200ms)

	TokenTTL   time.Duration // Optional: edit token lifetime (default: 120m)
	AppTag     string        // Optional: APP claim value (default: SAMPLE)
	UserHeader string        // Optional: identity header set by the SSO proxy (default: X-Remote-User)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	// LogOutput is not read from the environment. The CLI points it at
	// stderr so command output stays parseable. Default: stdout.
	LogOutput io.Writer
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when there is one. Variables already set win over .env.
func LoadConfig() Config {
	_ = godotenv.Load()

	signing := getEnvOrDefault("EDITAUTH_SIGNING_SECRET", PlaceholderSecret)

	return Config{
		SigningSecret:    cryptox.NewSecret(signing),
		PermissionSecret: cryptox.NewSecret(getEnvOrDefault("EDITAUTH_PERMISSION_SECRET", signing)),

		PermissionURL:        os.Getenv("EDITAUTH_PERMISSION_URL"),
		PermissionAuthHeader: getEnvOrDefault("EDITAUTH_PERMISSION_AUTH_HEADER", permission.DefaultAuthHeader),
		PermissionTimeout:    getEnvDurationOrDefault("EDITAUTH_PERMISSION_TIMEOUT", permission.DefaultTimeout),
		PermissionRetries:    getEnvIntOrDefault("EDITAUTH_PERMISSION_RETRIES", 0),
		PermissionRetryWait:  getEnvDurationOrDefault("EDITAUTH_PERMISSION_RETRY_WAIT", permission.DefaultRetryWait),

		TokenTTL:   time.Duration(getEnvIntOrDefault("EDITAUTH_TOKEN_TTL_MINUTES", int(jwtx.DefaultEditTokenTTL/time.Minute))) * time.Minute,
		AppTag:     getEnvOrDefault("EDITAUTH_APP_TAG", jwtx.DefaultAppTag),
		UserHeader: getEnvOrDefault("EDITAUTH_USER_HEADER", authsdk.DefaultUserHeader),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports every problem with cfg at once.
func (cfg Config) Validate() error {
	var errs []error

	if cfg.SigningSecret.IsZero() {
		errs = append(errs, errors.New("EDITAUTH_SIGNING_SECRET must not be empty"))
	}
	if cfg.Env == "prod" && cfg.SigningSecret.Equal(PlaceholderSecret) {
		errs = append(errs, errors.New("EDITAUTH_SIGNING_SECRET must be changed from the placeholder in prod"))
	}
	if cfg.PermissionSecret.IsZero() {
		errs = append(errs, errors.New("EDITAUTH_PERMISSION_SECRET must not be empty"))
	}

	if cfg.PermissionURL == "" {
		errs = append(errs, errors.New("EDITAUTH_PERMISSION_URL is required"))
	} else if u, err := url.Parse(cfg.PermissionURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("EDITAUTH_PERMISSION_URL %q is not an absolute URL", cfg.PermissionURL))
	}

	if cfg.PermissionRetries < 0 {
		errs = append(errs, errors.New("EDITAUTH_PERMISSION_RETRIES must not be negative"))
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("EDITAUTH_TOKEN_TTL_MINUTES must be positive"))
	}
	if strings.TrimSpace(cfg.UserHeader) == "" {
		errs = append(errs, errors.New("EDITAUTH_USER_HEADER must not be empty"))
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", cfg.Port))
	}

	return errors.Join(errs...)
}

// PermissionConfig is the checker configuration derived from cfg.
func (cfg Config) PermissionConfig() permission.Config {
	return permission.Config{
		BaseURL:    cfg.PermissionURL,
		Secret:     cfg.PermissionSecret,
		AuthHeader: cfg.PermissionAuthHeader,
		Timeout:    cfg.PermissionTimeout,
		Retries:    cfg.PermissionRetries,
		RetryWait:  cfg.PermissionRetryWait,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
