package goSession

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/store"
	"github.com/MrEthical07/goSession/token"
)

// Gate owns the session state of one client.
//
// A Gate starts unresolved. [Gate.Boot] reads the stored token once and
// settles the gate authenticated or unauthenticated; [Gate.Login] and
// [Gate.Logout] move it afterwards. Every change is published to
// subscribers as a [State] snapshot. All methods are safe for concurrent use.
type Gate struct {
	cfg        Config
	store      store.Backend
	closeStore func() error
	logger     *slog.Logger
	metrics    *Metrics
	audit      *auditDispatcher
	hub        *stateHub
	flows      flows.Deps
	now        func() time.Time
	bootID     string

	mu     sync.Mutex
	state  State
	closed bool

	bootOnce sync.Once
	bootDone chan struct{}
	bootErr  error

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	signInMu      sync.Mutex
	failedSignIns int
}

// LogoutResult reports the per-key cleanup of [Gate.Logout].
type LogoutResult struct {
	Outcomes []KeyOutcome
	// Cleared is true when the whole store was wiped after a key failure.
	Cleared  bool
	ClearErr error
	State    State
}

// KeyOutcome is the removal result of one session key.
type KeyOutcome struct {
	Key string
	Err error
}

// Failed returns the outcomes whose removal failed.
func (r LogoutResult) Failed() []KeyOutcome {
	var out []KeyOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// State returns the current snapshot without blocking on storage.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Store returns the persisted store the gate reads and writes.
func (g *Gate) Store() store.Backend {
	return g.store
}

// Config returns a copy of the gate configuration.
func (g *Gate) Config() Config {
	return cloneConfig(g.cfg)
}

// Boot runs the boot check. Only the first call reads storage; every call
// returns the settled state and the storage error of that first run, if
// any. A read failure still settles the gate unauthenticated.
func (g *Gate) Boot(ctx context.Context) (State, error) {
	g.bootOnce.Do(func() {
		defer close(g.bootDone)
		if g.isClosed() {
			g.bootErr = ErrGateClosed
			return
		}
		g.bootErr = g.runBoot(ctx)
	})
	return g.State(), g.bootErr
}

func (g *Gate) runBoot(ctx context.Context) error {
	start := time.Now()
	res := flows.RunBootCheck(ctx, g.flows.Boot)
	g.metrics.Observe(MetricBootLatency, time.Since(start))

	log := g.logger.With("outcome", res.Outcome.String())
	switch res.Outcome {
	case flows.BootValid:
		g.metrics.Inc(MetricBootAuthenticated)
	case flows.BootNoToken:
		g.metrics.Inc(MetricBootNoToken)
	case flows.BootMalformed:
		g.metrics.Inc(MetricBootMalformed)
	case flows.BootMissingExpiry:
		g.metrics.Inc(MetricBootMissingExpiry)
	case flows.BootExpired:
		g.metrics.Inc(MetricBootExpired)
	case flows.BootReadFailed:
		g.metrics.Inc(MetricBootReadFailure)
		log.Error("read stored token", "error", res.Err)
	}

	switch {
	case res.Purged:
		g.metrics.Inc(MetricTokenPurged)
		log.Info("purged unusable session token")
		g.emitAudit(ctx, AuditTokenPurged, subjectOf(res.Claims), true, nil, map[string]string{"reason": res.Outcome.String()})
	case res.PurgeErr != nil:
		g.metrics.Inc(MetricTokenPurgeFailure)
		log.Warn("remove unusable session token", "error", res.PurgeErr)
		g.emitAudit(ctx, AuditTokenPurged, subjectOf(res.Claims), false, res.PurgeErr, map[string]string{"reason": res.Outcome.String()})
	}

	st := g.transition(func(s *State) {
		s.Authenticated = res.Authenticated
		s.Loading = false
	})
	log.Debug("boot check settled", "authenticated", st.Authenticated)
	g.emitAudit(ctx, AuditBootResolved, subjectOf(res.Claims), res.Err == nil, res.Err, map[string]string{"outcome": res.Outcome.String()})

	if res.Err != nil {
		return fmt.Errorf("boot check: %w", res.Err)
	}
	return nil
}

// WaitReady blocks until the boot check has settled, ctx ends or the gate
// is closed.
func (g *Gate) WaitReady(ctx context.Context) (State, error) {
	if g.isClosed() {
		return g.State(), ErrGateClosed
	}
	select {
	case <-g.bootDone:
		return g.State(), nil
	case <-g.done:
		return g.State(), ErrGateClosed
	case <-ctx.Done():
		return g.State(), ctx.Err()
	}
}

// Login marks the session authenticated. The caller must already have
// stored the token; Login does not re-read or re-validate it.
func (g *Gate) Login(ctx context.Context) error {
	if g.isClosed() {
		return ErrGateClosed
	}
	g.transition(func(s *State) { s.Authenticated = true })
	g.metrics.Inc(MetricLogin)
	g.logger.Info("session authenticated")
	g.emitAudit(ctx, AuditLogin, "", true, nil, nil)
	return nil
}

// Logout removes the token and every auxiliary session key, then marks the
// session unauthenticated. Removals are attempted independently; failures
// are reported in the result and logged, never returned as an error. After
// [Gate.Close] the keys are still removed but no state is published.
func (g *Gate) Logout(ctx context.Context) LogoutResult {
	res := flows.RunLogout(ctx, g.flows.Logout)

	out := LogoutResult{
		Outcomes: make([]KeyOutcome, 0, len(res.Outcomes)),
		Cleared:  res.Cleared,
		ClearErr: res.ClearErr,
	}
	for _, o := range res.Outcomes {
		out.Outcomes = append(out.Outcomes, KeyOutcome{Key: o.Key, Err: o.Err})
		if o.Err == nil {
			continue
		}
		g.metrics.Inc(MetricLogoutKeyFailure)
		g.logger.Warn("remove session key", "key", o.Key, "error", o.Err)
		g.emitAudit(ctx, AuditLogoutKeyFails, "", false, o.Err, map[string]string{"key": o.Key})
	}
	if res.Cleared {
		g.metrics.Inc(MetricLogoutClear)
		g.logger.Warn("cleared store after failed session key removal")
	} else if res.ClearErr != nil {
		g.logger.Error("clear store after failed session key removal", "error", res.ClearErr)
	}

	if g.isClosed() {
		out.State = g.State()
		return out
	}

	out.State = g.transition(func(s *State) { s.Authenticated = false })
	g.metrics.Inc(MetricLogout)
	g.logger.Info("session ended", "failed_keys", len(out.Failed()))
	g.emitAudit(ctx, AuditLogout, "", len(out.Failed()) == 0, nil, nil)
	return out
}

// Subscribe returns a subscription whose channel first yields the current
// state and then every later change. buffer <= 0 uses the configured
// default.
func (g *Gate) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = g.cfg.Subscriptions.Buffer
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hub.add(buffer, g.state)
}

// OnChange calls fn from a dedicated goroutine for the current state and
// each later change, until the returned cancel func is called or the gate
// is closed.
func (g *Gate) OnChange(fn func(State)) (cancel func()) {
	sub := g.Subscribe(0)
	go func() {
		for st := range sub.C {
			fn(st)
		}
	}()
	return sub.Close
}

// Token returns the stored session token.
func (g *Gate) Token(ctx context.Context) (string, bool, error) {
	return g.store.Get(ctx, g.cfg.Store.TokenKey)
}

// Claims decodes the stored token. It returns [ErrNoToken] when none is
// stored. Expiry is not checked; use [token.Claims.Valid].
func (g *Gate) Claims(ctx context.Context) (*token.Claims, error) {
	raw, ok, err := g.Token(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, ErrNoToken
	}
	return token.Decode(raw)
}

// MetricsSnapshot copies the gate counters.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// AuditDropped reports audit events lost to a full queue.
func (g *Gate) AuditDropped() uint64 {
	return g.audit.droppedCount()
}

// Close closes every subscription, flushes the audit queue and releases
// backends opened through [Builder.WithBackends]. Close is idempotent.
func (g *Gate) Close() error {
	g.closeOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()

		close(g.done)
		g.hub.close()
		g.audit.close()
		if g.closeStore != nil {
			g.closeErr = g.closeStore()
		}
	})
	return g.closeErr
}

func (g *Gate) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// transition applies fn to the state and publishes the result when it
// differs from the previous snapshot.
func (g *Gate) transition(fn func(*State)) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.state
	fn(&next)
	if next.Authenticated == g.state.Authenticated && next.Loading == g.state.Loading {
		return g.state
	}
	if g.closed {
		return g.state
	}
	next.Version = g.state.Version + 1
	next.ChangedAt = g.now()
	g.state = next
	g.hub.publish(next)
	return next
}

func (g *Gate) emitAudit(ctx context.Context, eventType, subject string, success bool, err error, metadata map[string]string) {
	if g.audit == nil {
		return
	}
	ev := AuditEvent{
		Timestamp: g.now(),
		EventType: eventType,
		BootID:    g.bootID,
		Subject:   subject,
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	g.audit.emit(ctx, ev)
}

func subjectOf(c *token.Claims) string {
	if c == nil {
		return ""
	}
	return c.SubjectID()
}
