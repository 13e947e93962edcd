// Package prometheus renders goSession gate metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] reads a gate and exposes an [http.Handler]. Counter
// names are prefixed gosession_*_total; the single histogram is
// gosession_boot_latency_seconds. When the source also reports its state,
// gosession_session_resolved and gosession_session_authenticated gauges are
// added.
//
// # What this package must NOT do
//
//   - Register metrics in a global registry; callers mount the Handler.
//   - Mutate gate state.
package prometheus
