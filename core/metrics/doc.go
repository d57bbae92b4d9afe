// Package metrics defines the sinks recording simulation and optimizer
// observations. Sinks like PromSink and InfluxSink implement MetricsSink
// plus any of the optional recorder interfaces and can be combined with
// NewMultiSink. The factory helpers return a MultiSink automatically when
// multiple sinks are configured.
package metrics
