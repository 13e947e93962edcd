// Package otel exports goSession gate metrics through OpenTelemetry.
//
// [NewOTelExporter] registers an Int64ObservableCounter per gate counter and
// an Int64ObservableGauge per boot latency bucket. A single callback reads
// the gate snapshot on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate gate state.
package otel
