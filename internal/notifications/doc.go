// Package notifications delivers estimate run events via ntfy.
//
// The default implementation posts to the ntfy topic URL configured in
// config.toml and degrades to a no-op when the topic is blank. Events are
// enumerated so the workflow emits consistent messages without duplicating
// HTTP glue.
package notifications
