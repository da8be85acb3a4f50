// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for service planning:
//  1. [ServiceListView] : Browse recurring services with their next date, setlist reminder and overdue flag
//  2. [SetlistView] : Read the latest setlist summary for the selected service
//  3. [ConfirmView] : Confirm a reminder sweep
//  4. [SweepView] : Monitor real-time progress updates
//  5. [ResultView] : Display created, dispatched and failed reminders
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the ReminderEngine, providing non-blocking status reporting during sweeps.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
