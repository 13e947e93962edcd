package goSession

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every variable read by [LoadConfigFromEnv].
const EnvPrefix = "GOSESSION_"

// Config holds every tunable of the session gate.
//
// Config values are copied by [Builder.WithConfig]; later changes to the
// caller's value do not affect a built Gate.
type Config struct {
	Store         StoreConfig        `envPrefix:"STORE_"`
	Logout        LogoutConfig       `envPrefix:"LOGOUT_"`
	SignIn        SignInConfig       `envPrefix:"SIGNIN_"`
	Audit         AuditConfig        `envPrefix:"AUDIT_"`
	Metrics       MetricsConfig      `envPrefix:"METRICS_"`
	Subscriptions SubscriptionConfig `envPrefix:"SUBSCRIPTIONS_"`
	Backend       BackendConfig      `envPrefix:"BACKEND_"`
}

/*
====================================
STORE CONFIG
====================================
*/

// NativeMode selects how the native preference backend is detected.
type NativeMode string

const (
	// NativeAuto probes the native backend at construction.
	NativeAuto NativeMode = "auto"
	NativeOn   NativeMode = "on"
	NativeOff  NativeMode = "off"
)

// StoreConfig names the persisted keys and locates the storage backends.
type StoreConfig struct {
	// TokenKey is the key the session token is stored under.
	TokenKey string `env:"TOKEN_KEY"`
	// SessionKeys are the auxiliary session-scoped keys removed on logout
	// together with TokenKey.
	SessionKeys []string `env:"SESSION_KEYS" envSeparator:","`

	Native       NativeMode    `env:"NATIVE"`
	RedisAddr    string        `env:"REDIS_ADDR"`
	RedisDB      int           `env:"REDIS_DB"`
	RedisPrefix  string        `env:"REDIS_PREFIX"`
	Namespace    string        `env:"NAMESPACE"`
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT"`
	// FilePath is the browser-persistent fallback file; empty keeps entries in memory.
	FilePath string `env:"FILE_PATH"`
}

// LogoutConfig controls logout cleanup.
type LogoutConfig struct {
	// ClearOnFailure wipes the whole store when any session key could not be
	// removed. It also removes unrelated application data.
	ClearOnFailure bool `env:"CLEAR_ON_FAILURE"`
}

// SignInConfig controls credential exchange through [Gate.SignIn].
type SignInConfig struct {
	// MaxFailedAttempts locks SignIn after this many consecutive failures; 0 disables the lock.
	MaxFailedAttempts int `env:"MAX_FAILED_ATTEMPTS"`
	// RequireCaptcha rejects credentials without a captcha token.
	RequireCaptcha bool `env:"REQUIRE_CAPTCHA"`
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED"`
	BufferSize int  `env:"BUFFER_SIZE"`
	DropIfFull bool `env:"DROP_IF_FULL"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

// SubscriptionConfig controls state fan-out.
type SubscriptionConfig struct {
	// Buffer is the default channel capacity of a subscription.
	Buffer int `env:"BUFFER"`
}

// BackendConfig locates the storefront REST backend.
type BackendConfig struct {
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT"`
}

// DefaultSessionKeys are the auxiliary keys the storefront keeps per session:
// user type, customer id, cached profile and cached product listing.
var DefaultSessionKeys = []string{
	"userType",
	"clienteId",
	"userData",
	"cached_productos",
	"cached_productos_timestamp",
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			TokenKey:     "token",
			SessionKeys:  append([]string(nil), DefaultSessionKeys...),
			Native:       NativeAuto,
			RedisPrefix:  "gs",
			Namespace:    "storefront",
			ProbeTimeout: time.Second,
		},
		SignIn: SignInConfig{
			MaxFailedAttempts: 3,
			RequireCaptcha:    true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Subscriptions: SubscriptionConfig{
			Buffer: 4,
		},
		Backend: BackendConfig{
			Timeout: 15 * time.Second,
		},
	}
}

// LoadConfigFromEnv starts from [DefaultConfig] and overrides every field
// whose GOSESSION_* variable is set, then validates the result.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Store.SessionKeys = append([]string(nil), cfg.Store.SessionKeys...)
	return out
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.TokenKey) == "" {
		return fmt.Errorf("%w: Store TokenKey must not be empty", ErrInvalidConfig)
	}
	for _, k := range c.Store.SessionKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: Store SessionKeys must not contain empty keys", ErrInvalidConfig)
		}
	}

	switch c.Store.Native {
	case NativeAuto, NativeOn, NativeOff:
	default:
		return fmt.Errorf("%w: Store Native must be auto, on or off, got %q", ErrInvalidConfig, c.Store.Native)
	}
	if c.Store.Native == NativeOn && c.Store.RedisAddr == "" {
		return fmt.Errorf("%w: Store Native=on requires RedisAddr", ErrInvalidConfig)
	}
	if c.Store.RedisDB < 0 {
		return fmt.Errorf("%w: Store RedisDB must be >= 0", ErrInvalidConfig)
	}
	if c.Store.ProbeTimeout < 0 {
		return fmt.Errorf("%w: Store ProbeTimeout must be >= 0", ErrInvalidConfig)
	}

	if c.SignIn.MaxFailedAttempts < 0 {
		return fmt.Errorf("%w: SignIn MaxFailedAttempts must be >= 0", ErrInvalidConfig)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when enabled", ErrInvalidConfig)
	}

	if c.Subscriptions.Buffer <= 0 {
		return fmt.Errorf("%w: Subscriptions Buffer must be > 0", ErrInvalidConfig)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("%w: Backend Timeout must be >= 0", ErrInvalidConfig)
	}
	if c.Backend.BaseURL != "" && !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("%w: Backend BaseURL must be an http(s) URL", ErrInvalidConfig)
	}

	return nil
}

// sessionKeys returns TokenKey followed by the auxiliary keys.
func (c *Config) sessionKeys() []string {
	keys := make([]string, 0, len(c.Store.SessionKeys)+1)
	keys = append(keys, c.Store.TokenKey)
	return append(keys, c.Store.SessionKeys...)
}
