// Package tasks runs the reminder sweep: plan upcoming notifications, persist them, and dispatch
// the ones that are due.
//
// # Sweep
//
// [ReminderEngine.Sweep] performs one pass:
//
//  1. Loads services and existing notifications from the stores
//  2. Plans reminders with [scheduling.Scheduler.UpcomingNotifications]
//  3. Persists new reminders (duplicates rejected by the store are counted, not fatal)
//  4. Dispatches active, not yet dispatched reminders through a [Notifier], paced by a rate limiter
//
// # Progress Reporting
//
// Sweeps report phases over an optional channel. Updates use select with default so reporting
// never blocks the sweep.
//
// # Scheduling
//
// [Sweeper] runs sweeps on a cron spec in a configured timezone until stopped.
package tasks
