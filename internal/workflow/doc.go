// Package workflow runs estimation jobs through the pipeline stages.
//
// A Pipeline creates a locked run directory, then feeds a stage.Job through
// the registered handlers in order: ingest (extract and chunk the
// transcript, copy the scan), estimate (group chunks and prompt the model
// per group), aggregate (parse and merge the group outputs), cleanup (the
// rule passes and optional model dedupe) and render (sectioned CSV and
// styled workbook). Each stage runs through stageexec so start, completion
// and failure are logged the same way.
//
// Runs are recorded in the history store when one is configured, and run
// level notifications fire on start, completion and failure. Finish reruns
// the offline stages (aggregate, cleanup, render) against an existing run
// directory.
package workflow
