package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chosen/internal/setlist"
	"github.com/desertthunder/chosen/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgServicesFetched MsgKind = iota
	MsgSetlistFetched
	MsgProgressUpdate
	MsgSweepComplete
)

type servicesFetched struct {
	rows []serviceRow
	err  error
}

type setlistFetched struct {
	summary *setlist.Summary
	err     error
}

type sweepComplete struct {
	result *tasks.SweepResult
	err    error
}

// servicesFetchedMsg is the constructor for [MsgServicesFetched]
func servicesFetchedMsg(rows []serviceRow, err error) Msg {
	return Msg{kind: MsgServicesFetched, data: servicesFetched{rows, err}}
}

// setlistFetchedMsg is the constructor for [MsgSetlistFetched]
func setlistFetchedMsg(summary *setlist.Summary, err error) Msg {
	return Msg{kind: MsgSetlistFetched, data: setlistFetched{summary, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// sweepCompleteMsg is the constructor for [MsgSweepComplete]
func sweepCompleteMsg(result *tasks.SweepResult, err error) Msg {
	return Msg{kind: MsgSweepComplete, data: sweepComplete{result, err}}
}
