// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and group indexes for
//     logging.
//   - Structured error markers plus the Wrap helper so stage failures carry a
//     consistent classification into run history.
//
// Use these helpers when wiring new stage logic so error handling and log
// shape stay uniform across the pipeline.
package services
