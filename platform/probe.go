package platform

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Probe reports whether the native preference backend is available.
type Probe interface {
	IsNative() bool
}

// Static is a probe with a fixed answer.
type Static bool

// IsNative returns the fixed answer.
func (s Static) IsNative() bool { return bool(s) }

// Func adapts an arbitrary check into a [Probe]. A nil function or a panic
// inside it reports false.
type Func func() bool

// IsNative runs the wrapped check.
func (f Func) IsNative() (native bool) {
	if f == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			native = false
		}
	}()
	return f()
}

// Env reports native when the named environment variable holds a true value
// ("1", "true", "yes", "on", case-insensitive).
func Env(name string) Probe {
	return Func(func() bool {
		v, ok := os.LookupEnv(name)
		if !ok {
			return false
		}
		v = strings.TrimSpace(v)
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		switch strings.ToLower(v) {
		case "yes", "on":
			return true
		}
		return false
	})
}

// RedisPing reports native when the preference service behind client answers
// PING within timeout.
func RedisPing(client redis.UniversalClient, timeout time.Duration) Probe {
	if timeout <= 0 {
		timeout = time.Second
	}
	return Func(func() bool {
		if client == nil {
			return false
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	})
}
