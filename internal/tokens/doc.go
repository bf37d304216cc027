// Package tokens counts model tokens for chunking and grouping budgets.
//
// NewCounter prefers the tiktoken encoding for the configured model using the
// embedded offline BPE ranks, so counting never touches the network. When no
// encoding can be built the counter falls back to the four-characters-per-token
// heuristic.
package tokens
