package goSession

import (
	"io"
	"log/slog"
	"time"

	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/platform"
	"github.com/MrEthical07/goSession/store"
	"github.com/MrEthical07/goSession/token"
	"github.com/google/uuid"
)

// Builder assembles a [Gate]. A Builder can be used for a single Build.
type Builder struct {
	config Config

	store    store.Backend
	backends *Backends

	logger    *slog.Logger
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// Backends are the raw storage pieces a Gate assembles its store from.
type Backends struct {
	// Native is the preference backend; nil means none is available.
	Native store.Backend
	// Fallback is mandatory.
	Fallback store.Backend
	Probe    platform.Probe
	// Close releases resources held by the backends. The Gate calls it from
	// [Gate.Close].
	Close func() error
}

func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore uses s as the persisted store. s may be a *store.Store or any
// other [store.Backend]; fallback metrics are only recorded for stores
// assembled through [Builder.WithBackends].
func (b *Builder) WithStore(s store.Backend) *Builder {
	b.store = s
	return b
}

// WithBackends assembles the store from native and fallback backends at
// Build time. It takes precedence over WithStore.
func (b *Builder) WithBackends(be Backends) *Builder {
	b.backends = &be
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock overrides the time source used for expiry checks and snapshot
// timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a Gate in the unresolved
// state. Call [Gate.Boot] to run the boot check.
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	metrics := NewMetrics(cfg.Metrics)

	var (
		backing   store.Backend
		closeFunc func() error
	)
	switch {
	case b.backends != nil:
		s, err := store.New(b.backends.Native, b.backends.Fallback, b.backends.Probe,
			store.WithLogger(logger),
			store.WithFallbackHook(func(string, error) { metrics.Inc(MetricStoreFallback) }),
		)
		if err != nil {
			return nil, err
		}
		backing = s
		closeFunc = b.backends.Close
	case b.store != nil:
		backing = b.store
	default:
		return nil, ErrNilStore
	}

	g := &Gate{
		cfg:        cfg,
		store:      backing,
		closeStore: closeFunc,
		logger:     logger.With("component", "session_gate"),
		metrics:    metrics,
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink),
		now:        now,
		bootID:     uuid.NewString(),
		bootDone:   make(chan struct{}),
		done:       make(chan struct{}),
	}
	g.hub = newStateHub(func() { metrics.Inc(MetricSubscriberDropped) })
	g.state = State{Loading: true, ChangedAt: now()}
	g.flows = flows.Deps{
		Boot: flows.BootDeps{
			Store:    backing,
			TokenKey: cfg.Store.TokenKey,
			Decode:   token.Decode,
			Now:      now,
		},
		Logout: flows.LogoutDeps{
			Store:          backing,
			Keys:           cfg.sessionKeys(),
			ClearOnFailure: cfg.Logout.ClearOnFailure,
		},
		SignIn: flows.SignInDeps{
			Store:    backing,
			TokenKey: cfg.Store.TokenKey,
		},
	}

	b.built = true
	return g, nil
}
