package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chosen/internal/formatter"
	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/setlist"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/desertthunder/chosen/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ServiceListView ViewState = iota
	SetlistView
	ConfirmView
	SweepView
	ResultView
)

// SetlistSource loads saved setlists (repositories.SetlistRepository).
type SetlistSource interface {
	Latest(serviceID string) (*models.GeneratedSetlist, error)
	ExistsFor(serviceID, date string) (bool, error)
}

// CatalogSource lists the song catalog (repositories.SongRepository).
type CatalogSource interface {
	Catalog() ([]models.Song, error)
}

// TeamSource lists the worship team (repositories.UserRepository).
type TeamSource interface {
	Team() ([]models.User, error)
}

// SweepRunner runs one reminder sweep ([tasks.ReminderEngine]).
type SweepRunner interface {
	Sweep(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SweepResult, error)
}

// Deps are the data sources the dashboard reads from.
type Deps struct {
	Scheduler *scheduling.Scheduler
	Services  tasks.ServiceSource
	Setlists  SetlistSource
	Songs     CatalogSource
	Team      TeamSource
	Engine    SweepRunner
}

type sweepOutcome struct {
	result *tasks.SweepResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	deps         Deps
	view         ViewState
	width        int
	height       int
	serviceList  list.Model
	rows         []serviceRow
	selected     *serviceRow
	summary      *setlist.Summary
	progressChan chan tasks.ProgressUpdate
	outcome      chan sweepOutcome
	progress     tasks.ProgressUpdate
	result       *tasks.SweepResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Scheduler == nil {
		deps.Scheduler = scheduling.NewScheduler()
	}
	return &Model{
		ctx:         ctx,
		deps:        deps,
		view:        ServiceListView,
		serviceList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init initializes the TUI by loading the recurring services.
func (m *Model) Init() tea.Cmd {
	return m.fetchServices()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.serviceList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ServiceListView:
			return m.handleServiceListKeys(msg)
		case SetlistView:
			return m.handleSetlistKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case SweepView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgServicesFetched:
		data := msg.data.(servicesFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.rows = data.rows
		items := make([]list.Item, len(data.rows))
		for i, row := range data.rows {
			items[i] = serviceItem{row: row}
		}
		m.serviceList.SetItems(items)
		m.serviceList.Title = "Recurring Services"
		return m, nil

	case MsgSetlistFetched:
		data := msg.data.(setlistFetched)
		m.summary = data.summary
		m.err = data.err
		m.view = SetlistView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgSweepComplete:
		data := msg.data.(sweepComplete)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.outcome = nil
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == ServiceListView {
		return styles.failed.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ServiceListView:
		return m.renderServiceList()
	case SetlistView:
		return m.renderSetlist()
	case ConfirmView:
		return m.renderConfirm()
	case SweepView:
		return m.renderSweep()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleServiceListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.serviceList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchServices()
	case key.Matches(msg, m.keys.sweep):
		if m.deps.Engine != nil {
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.serviceList.SelectedItem().(serviceItem); ok {
			row := item.row
			m.selected = &row
			return m, m.fetchSetlist(row)
		}
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleSetlistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ServiceListView
		m.summary = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = ServiceListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SweepView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startSweep()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.refresh):
		m.view = ServiceListView
		m.result = nil
		m.err = nil
		return m, m.fetchServices()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ServiceListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.serviceList, cmd = m.serviceList.Update(msg)
	return m, cmd
}

func (m *Model) fetchServices() tea.Cmd {
	return func() tea.Msg {
		if m.deps.Services == nil {
			return servicesFetchedMsg(nil, shared.ErrServiceUnavailable)
		}
		services, err := m.deps.Services.All()
		if err != nil {
			return servicesFetchedMsg(nil, err)
		}
		return servicesFetchedMsg(m.buildRows(services), nil)
	}
}

// buildRows resolves each service's next occurrence. A row that fails keeps its error for display.
func (m *Model) buildRows(services []models.RecurringService) []serviceRow {
	now := m.deps.Scheduler.Current()
	rows := make([]serviceRow, 0, len(services))
	for _, service := range services {
		row := serviceRow{service: service}
		next, err := m.deps.Scheduler.NextServiceDate(service, now)
		if err != nil {
			row.err = err
			rows = append(rows, row)
			continue
		}
		row.next = next
		row.reminder = m.deps.Scheduler.ReminderDates(service, next).Setlist

		if m.deps.Setlists != nil && service.Active {
			exists, err := m.deps.Setlists.ExistsFor(service.ID, shared.FormatDate(next))
			if err != nil {
				row.err = err
			} else {
				row.overdue = m.deps.Scheduler.IsSetlistOverdue(service, next, exists)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (m *Model) fetchSetlist(row serviceRow) tea.Cmd {
	return func() tea.Msg {
		if m.deps.Setlists == nil {
			return setlistFetchedMsg(nil, shared.ErrServiceUnavailable)
		}
		saved, err := m.deps.Setlists.Latest(row.service.ID)
		if err != nil {
			return setlistFetchedMsg(nil, err)
		}

		var songs []models.Song
		if m.deps.Songs != nil {
			if songs, err = m.deps.Songs.Catalog(); err != nil {
				return setlistFetchedMsg(nil, err)
			}
		}
		var team []models.User
		if m.deps.Team != nil {
			if team, err = m.deps.Team.Team(); err != nil {
				return setlistFetchedMsg(nil, err)
			}
		}

		summary := setlist.Summarize(saved, songs, team)
		return setlistFetchedMsg(&summary, nil)
	}
}

func (m *Model) startSweep() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	outcome := make(chan sweepOutcome, 1)
	m.progressChan = progress
	m.outcome = outcome

	go func() {
		result, err := m.deps.Engine.Sweep(m.ctx, progress)
		close(progress)
		outcome <- sweepOutcome{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, outcome := m.progressChan, m.outcome
	return func() tea.Msg {
		if progress == nil {
			return sweepCompleteMsg(nil, shared.ErrServiceUnavailable)
		}

		update, ok := <-progress
		if !ok {
			done := <-outcome
			return sweepCompleteMsg(done.result, done.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderServiceList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	if m.deps.Engine != nil {
		helpKeys = []key.Binding{m.keys.enter, m.keys.sweep, m.keys.refresh, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.serviceList.View(), helpView)
}

func (m *Model) renderSetlist() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	name := ""
	if m.selected != nil {
		name = m.selected.service.Title
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s",
			styles.heading.Render(name), styles.attention.Render(m.err.Error()), helpView)
	}
	if m.summary == nil {
		return fmt.Sprintf("%s\n\nNo setlist loaded\n\n%s", styles.heading.Render(name), helpView)
	}

	body, err := formatter.ExportToText(*m.summary)
	if err != nil {
		return styles.failed.Render(err.Error())
	}

	var shortfalls string
	if len(m.summary.Shortfalls) > 0 {
		shortfalls = "\n" + styles.attention.Render(strings.Join(m.summary.Shortfalls, "\n"))
	}
	return fmt.Sprintf("%s\n%s%s\n\n%s", styles.heading.Render(m.summary.Title), body, shortfalls, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.heading.Render("Run reminder sweep?")
	info := fmt.Sprintf("\nServices: %d\nPlans, saves and dispatches reminders due in the coming weeks.\n", len(m.rows))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSweep() string {
	title := styles.heading.Render("Sweeping Reminders")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadServices:
		phase = "Loading services..."
	case tasks.PlanReminders:
		phase = "Planning reminders..."
	case tasks.SaveReminders:
		phase = fmt.Sprintf("Saving reminders (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Dispatch:
		phase = fmt.Sprintf("Dispatching reminders (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.failed.Render(fmt.Sprintf("Sweep failed: %v\n\nPress r to return, q to quit", m.err))
	}

	if m.result == nil {
		return styles.failed.Render("No result available\n\nPress r to return, q to quit")
	}

	title := styles.done.Render("✓ Sweep Complete!")
	info := fmt.Sprintf(
		"\nCreated: %d\nAlready scheduled: %d\nDispatched: %d",
		len(m.result.Created),
		m.result.Duplicates,
		m.result.Dispatched,
	)

	var failed string
	if len(m.result.Failed) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.attention.Render(fmt.Sprintf("Failed to dispatch %d reminders:", len(m.result.Failed))))
		for _, f := range m.result.Failed {
			failed += fmt.Sprintf("\n  • %s %s: %v", f.Notification.ServiceID, f.Notification.TargetDate, f.Err)
		}
	}

	helpKeys := []key.Binding{m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
