// Package infra holds the technical adapters of rescuesim: structured
// logging, metrics sinks and exporters, the MQTT snapshot publisher and
// Sentry reporting. Adapters implement interfaces declared under core and
// are selected from configuration by the app package.
package infra
