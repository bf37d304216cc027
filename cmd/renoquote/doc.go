// Package main hosts the renoquote CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the logger, LLM
// client, run history store and notifier, and hands them to the workflow
// pipeline. Estimation (run), the offline steps (chunk, aggregate,
// cleanup), run history (runs) and environment checks (check) are thin
// wrappers over the internal packages.
package main
