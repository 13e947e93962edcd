package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names one gate counter for exporters.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricBootAuthenticated, Name: "gosession_boot_authenticated_total", Help: "Boot checks that found a live session token."},
	{ID: goSession.MetricBootNoToken, Name: "gosession_boot_no_token_total", Help: "Boot checks with no stored token."},
	{ID: goSession.MetricBootMalformed, Name: "gosession_boot_malformed_total", Help: "Boot checks that found an undecodable token."},
	{ID: goSession.MetricBootMissingExpiry, Name: "gosession_boot_missing_expiry_total", Help: "Boot checks that found a token without exp."},
	{ID: goSession.MetricBootExpired, Name: "gosession_boot_expired_total", Help: "Boot checks that found an expired token."},
	{ID: goSession.MetricBootReadFailure, Name: "gosession_boot_read_failure_total", Help: "Boot checks whose store read failed."},
	{ID: goSession.MetricTokenPurged, Name: "gosession_token_purged_total", Help: "Unusable tokens removed from the store."},
	{ID: goSession.MetricTokenPurgeFailure, Name: "gosession_token_purge_failure_total", Help: "Unusable tokens that could not be removed."},
	{ID: goSession.MetricLogin, Name: "gosession_login_total", Help: "Transitions to authenticated."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Transitions to unauthenticated through logout."},
	{ID: goSession.MetricLogoutKeyFailure, Name: "gosession_logout_key_failure_total", Help: "Session keys a logout failed to remove."},
	{ID: goSession.MetricLogoutClear, Name: "gosession_logout_clear_total", Help: "Logouts that cleared the whole store after a key failure."},
	{ID: goSession.MetricSignInSuccess, Name: "gosession_sign_in_success_total", Help: "Successful credential exchanges."},
	{ID: goSession.MetricSignInFailure, Name: "gosession_sign_in_failure_total", Help: "Failed credential exchanges."},
	{ID: goSession.MetricSignInLocked, Name: "gosession_sign_in_locked_total", Help: "Sign-in attempts refused after repeated failures."},
	{ID: goSession.MetricStoreFallback, Name: "gosession_store_fallback_total", Help: "Store operations served by the fallback backend."},
	{ID: goSession.MetricSubscriberDropped, Name: "gosession_subscriber_dropped_total", Help: "State snapshots replaced before a subscriber read them."},
}

var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricBootLatency, Name: "gosession_boot_latency_seconds", Help: "Boot check latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, matching the
// gate's millisecond buckets.
var HistogramBounds = []string{
	"0.001",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"+Inf",
}

// HistogramBoundSuffix are HistogramBounds in a form usable inside metric names.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, padding with zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into the running totals
// Prometheus expects.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
