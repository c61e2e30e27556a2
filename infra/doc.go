// Package infra holds the technical adapters behind the core interfaces:
// zerolog logging, Prometheus and InfluxDB metrics sinks, the MQTT notifier
// and the Sentry monitor. Core packages never import infra; wiring happens
// in app and cmd.
package infra
