/*
Package observability turns data manager and validator events into
Prometheus metrics and structured log lines.

Both Metrics.Hooks and LogHooks return domain.Hooks, which can be merged and
passed to fixtures.WithHooks.
*/
package observability
