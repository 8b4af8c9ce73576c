// Package observability provides event logging for pacer. It uses structured
// JSON Lines (JSONL) for event persistence and derives run summaries on-demand
// from the event log.
package observability
