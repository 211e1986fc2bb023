// Package upstream provides the shared outbound HTTP client used to reach
// hosted models and the chatbot API.
//
// A single Client is constructed at startup and reused by every adapter, so
// connections are pooled instead of being opened per inbound request. Every
// call is bounded by connect, TLS, response-header and total timeouts and
// is counted in the agrirelay_upstream_* Prometheus metrics, labeled with
// the upstream name and outcome (ok, status, timeout, error).
package upstream
