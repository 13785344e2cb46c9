// Package observability provides event logging, metrics and alerting for the
// application kit tracker. Events are persisted as JSON Lines (JSONL) and
// metrics are derived from them on demand; alerts are evaluated against the
// current kits and next-step tasks.
package observability
