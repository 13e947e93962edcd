package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var loadCreds = goSession.Credentials{
	Email:        "load@example.com",
	Password:     "load-test-password",
	CaptchaToken: "load",
}

func main() {
	var (
		clients     = flag.Int("clients", 2000, "number of simulated clients (one gate and namespace each)")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "sign-in/logout cycles in the churn phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gs", "redis key prefix")
	)
	flag.Parse()

	if *clients <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "clients, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	raw, err := liveToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mint token: %v\n", err)
		os.Exit(1)
	}

	backends := make([]store.Backend, *clients)
	fmt.Printf("seeding %d clients...\n", *clients)
	startSeed := time.Now()
	for i := range backends {
		rb := store.NewRedisBackend(client, *prefix, fmt.Sprintf("client-%d", i))
		for _, kv := range [][2]string{{"token", raw}, {"clienteId", fmt.Sprint(i)}, {"userType", "cliente"}} {
			if err := rb.Set(ctx, kv[0], kv[1]); err != nil {
				fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
				os.Exit(1)
			}
		}
		backends[i] = rb
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	gates := make([]*goSession.Gate, *clients)
	for i, b := range backends {
		cfg := goSession.DefaultConfig()
		cfg.Audit.Enabled = false
		cfg.SignIn.MaxFailedAttempts = 0
		g, err := goSession.New().WithConfig(cfg).WithStore(b).Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build gate: %v\n", err)
			os.Exit(1)
		}
		gates[i] = g
	}
	defer func() {
		for _, g := range gates {
			_ = g.Close()
		}
	}()

	bootStats := runBootPhase(ctx, gates, *concurrency)
	churnStats := runChurnPhase(ctx, gates, raw, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("boot", bootStats)
	printStats("churn", churnStats)
}

func runBootPhase(ctx context.Context, gates []*goSession.Gate, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, len(gates))
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= len(gates) {
					return
				}
				t0 := time.Now()
				st, err := gates[i].Boot(ctx)
				d := time.Since(t0)
				if err != nil || !st.Authenticated {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// runChurnPhase signs a random client out and back in ops times.
func runChurnPhase(ctx context.Context, gates []*goSession.Gate, raw string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	auth := goSession.AuthenticatorFunc(func(context.Context, goSession.Credentials) (string, error) {
		return raw, nil
	})

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				g := gates[r.Intn(len(gates))]

				t0 := time.Now()
				res := g.Logout(ctx)
				err := g.SignIn(ctx, auth, loadCreds)
				d := time.Since(t0)
				if err != nil || len(res.Failed()) > 0 {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func liveToken() (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       loadCreds.Email,
		"clienteId": 7,
		"iat":       now.Unix(),
		"exp":       now.Add(24 * time.Hour).Unix(),
	}).SignedString([]byte("load-test"))
}
