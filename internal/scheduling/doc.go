// Package scheduling turns recurring service definitions into dated occurrences and reminders.
//
// Every function is a pure computation over its arguments and the [Scheduler]'s clock. Nothing is
// cached between calls; persisting generated notifications is the caller's job.
package scheduling
