// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations and excludes soft-deleted records from queries by default.
// List and role columns are stored as JSON text.
//
// Key Implementations:
//   - [SongRepository] : Song catalog with title lookups and usage tracking
//   - [UserRepository] : Team members and their per-song key preferences
//   - [AvailabilityRepository] : Date ranges during which a member cannot serve
//   - [ServiceRepository] : Recurring weekly services
//   - [TemplateRepository] : Setlist templates with ordered sections
//   - [SetlistRepository] : Generated setlists and their ordered entries
//   - [NotificationRepository] : Reminders, unique per service, type and target date
//
// Sequence numbers provide stable, human-readable ordering (e.g., song #42, template #3) independent of
// identifiers and creation timestamps. The [NextSequence] function atomically increments per-table
// sequence counters in dedicated sequence tables.
package repositories
