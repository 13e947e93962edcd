package goSession

import (
	"fmt"

	"github.com/MrEthical07/goSession/platform"
	"github.com/MrEthical07/goSession/store"
	"github.com/redis/go-redis/v9"
)

// OpenBackends builds the storage pieces described by cfg: a redis native
// backend when RedisAddr is set and Native is not off, and a file fallback
// when FilePath is set (memory otherwise).
//
// The returned Close releases the redis client. Pass the result to
// [Builder.WithBackends].
func OpenBackends(cfg StoreConfig) (Backends, error) {
	var be Backends

	if cfg.FilePath != "" {
		fb, err := store.NewFileBackend(cfg.FilePath)
		if err != nil {
			return Backends{}, fmt.Errorf("open file backend: %w", err)
		}
		be.Fallback = fb
	} else {
		be.Fallback = store.NewMemoryBackend()
	}

	if cfg.Native == NativeOff || cfg.RedisAddr == "" {
		be.Probe = platform.Static(false)
		be.Close = func() error { return nil }
		return be, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	be.Native = store.NewRedisBackend(client, cfg.RedisPrefix, cfg.Namespace)
	be.Close = client.Close

	if cfg.Native == NativeOn {
		be.Probe = platform.Static(true)
	} else {
		be.Probe = platform.RedisPing(client, cfg.ProbeTimeout)
	}

	return be, nil
}
