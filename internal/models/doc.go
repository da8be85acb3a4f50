// Package models defines domain entities and persistence interfaces for the chosen worship planning service.
//
// The package contains two categories of types:
//
// 1. Catalog entities: long-lived records maintained by the worship team
//   - [Song] : Song metadata with original key and classification tags
//   - [User] : Team members with roles and key preferences
//   - [UserAvailability] : Date ranges a team member cannot serve
//
// 2. Planning entities: the inputs and outputs of scheduling and setlist composition
//   - [RecurringService] : A weekly service definition with reminder offsets
//   - [SetlistTemplate] : Ordered sections describing the shape of a setlist
//   - [GeneratedSetlist] : A concrete setlist produced from a template
//   - [SetlistNotification] : Reminders derived from upcoming service occurrences
//
// All entities are plain values. The scheduling and composition packages never retain them across calls;
// they are loaded and persisted by implementations of [Repository].
package models
