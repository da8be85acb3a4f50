package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
	"github.com/desertthunder/chosen/internal/tasks"
	tu "github.com/desertthunder/chosen/internal/testing"
)

// 2025-03-07 is a Friday.
var now = time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

type fakeServices struct {
	services []models.RecurringService
	err      error
}

func (f *fakeServices) All() ([]models.RecurringService, error) { return f.services, f.err }

type fakeSetlists struct {
	latest map[string]*models.GeneratedSetlist
	exists map[string]bool
}

func (f *fakeSetlists) Latest(serviceID string) (*models.GeneratedSetlist, error) {
	if s, ok := f.latest[serviceID]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrSetlistNotFound, serviceID)
}

func (f *fakeSetlists) ExistsFor(serviceID, date string) (bool, error) {
	return f.exists[serviceID+"/"+date], nil
}

type fakeCatalog []models.Song

func (f fakeCatalog) Catalog() ([]models.Song, error) { return f, nil }

type fakeTeam []models.User

func (f fakeTeam) Team() ([]models.User, error) { return f, nil }

type fakeEngine struct {
	result *tasks.SweepResult
	err    error
}

func (f *fakeEngine) Sweep(_ context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SweepResult, error) {
	progress <- tasks.ProgressUpdate{Phase: tasks.PlanReminders, Step: 1, Total: 1, Message: "Planned 2 new reminders"}
	return f.result, f.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(engine SweepRunner) *Model {
	services := &fakeServices{services: []models.RecurringService{
		tu.NewService("sun", time.Sunday, "10:30", 3, 2),
		tu.NewService("wed", time.Wednesday, "19:00", 1, 1),
	}}
	setlists := &fakeSetlists{
		latest: map[string]*models.GeneratedSetlist{
			"sun": {
				ID:        "set1",
				Title:     "Sunday Service - Mar 2, 2025",
				Date:      "2025-03-02",
				ServiceID: "sun",
				Songs: []models.SetlistEntry{
					{SongID: "s1", Section: "praise", Order: 1, PreferredKey: "A"},
				},
				PraiseLeader: "u1",
			},
		},
		exists: map[string]bool{},
	}

	m := NewModel(context.Background(), Deps{
		Scheduler: &scheduling.Scheduler{Now: tu.FixedClock(now)},
		Services:  services,
		Setlists:  setlists,
		Songs:     fakeCatalog{tu.NewSong("s1", "Great Are You Lord", "G")},
		Team:      fakeTeam{tu.NewUser("u1", "Alice", "")},
		Engine:    engine,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// load runs the Init command and feeds its message back into the model.
func load(t *testing.T, m *Model) {
	t.Helper()
	m.Update(m.Init()())
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
}

func TestBuildRows(t *testing.T) {
	m := newModel(nil)
	load(t, m)

	if len(m.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m.rows))
	}

	sun := m.rows[0]
	if got := shared.FormatDate(sun.next); got != "2025-03-09" {
		t.Errorf("next Sunday = %s, want 2025-03-09", got)
	}
	if got := shared.FormatDate(sun.reminder); got != "2025-03-06" {
		t.Errorf("reminder = %s, want 2025-03-06", got)
	}
	if !sun.overdue {
		t.Error("Sunday setlist should be overdue after its reminder passed")
	}

	wed := m.rows[1]
	if got := shared.FormatDate(wed.next); got != "2025-03-12" {
		t.Errorf("next Wednesday = %s, want 2025-03-12", got)
	}
	if wed.overdue {
		t.Error("Wednesday setlist should not be overdue yet")
	}

	t.Run("invalid service keeps error", func(t *testing.T) {
		rows := m.buildRows([]models.RecurringService{tu.NewService("bad", time.Sunday, "nope", 3, 2)})
		if len(rows) != 1 || !errors.Is(rows[0].err, shared.ErrInvalidTime) {
			t.Errorf("expected ErrInvalidTime row, got %+v", rows)
		}
		if desc := (serviceItem{row: rows[0]}).Description(); !strings.Contains(desc, "invalid service time") {
			t.Errorf("description should show the error, got %q", desc)
		}
	})
}

func TestServiceItem(t *testing.T) {
	row := serviceRow{
		service:  tu.NewService("sun", time.Sunday, "10:30", 3, 2),
		next:     time.Date(2025, time.March, 9, 10, 30, 0, 0, time.UTC),
		reminder: time.Date(2025, time.March, 6, 10, 30, 0, 0, time.UTC),
	}
	item := serviceItem{row: row}

	if item.Title() != "Service sun" {
		t.Errorf("title = %q", item.Title())
	}
	desc := item.Description()
	for _, want := range []string{"Sunday", "10:30 AM", "next 2025-03-09", "setlist due 2025-03-06"} {
		if !strings.Contains(desc, want) {
			t.Errorf("description %q missing %q", desc, want)
		}
	}
	if strings.Contains(desc, "overdue") {
		t.Error("description should not flag overdue")
	}

	row.service.Active = false
	if got := (serviceItem{row: row}).Title(); !strings.Contains(got, "inactive") {
		t.Errorf("inactive title = %q", got)
	}
}

func TestSetlistView(t *testing.T) {
	t.Run("shows latest setlist", func(t *testing.T) {
		m := newModel(nil)
		load(t, m)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected fetch command")
		}
		m.Update(cmd())

		if m.view != SetlistView {
			t.Fatalf("view = %d, want SetlistView", m.view)
		}
		out := m.View()
		for _, want := range []string{"Sunday Service - Mar 2, 2025", "Great Are You Lord", "praise Alice"} {
			if !strings.Contains(out, want) {
				t.Errorf("view missing %q:\n%s", want, out)
			}
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != ServiceListView || m.summary != nil {
			t.Error("esc should return to the service list")
		}
	})

	t.Run("missing setlist", func(t *testing.T) {
		m := newModel(nil)
		load(t, m)
		m.serviceList.Select(1)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m.Update(cmd())

		if !errors.Is(m.err, shared.ErrSetlistNotFound) {
			t.Errorf("expected ErrSetlistNotFound, got %v", m.err)
		}
		if !strings.Contains(m.View(), "setlist not found") {
			t.Errorf("view should report the missing setlist:\n%s", m.View())
		}
	})
}

func TestSweepFlow(t *testing.T) {
	t.Run("confirm and complete", func(t *testing.T) {
		engine := &fakeEngine{result: &tasks.SweepResult{
			Created:    []models.SetlistNotification{{ID: "n1"}, {ID: "n2"}},
			Duplicates: 1,
			Dispatched: 1,
			Failed: []tasks.DispatchError{{
				Notification: models.SetlistNotification{ServiceID: "sun", TargetDate: "2025-03-09"},
				Err:          errors.New("smtp down"),
			}},
		}}
		m := newModel(engine)
		load(t, m)

		m.Update(runes("s"))
		if m.view != ConfirmView {
			t.Fatalf("view = %d, want ConfirmView", m.view)
		}
		if !strings.Contains(m.View(), "Run reminder sweep?") {
			t.Error("confirm view missing prompt")
		}

		_, cmd := m.Update(runes("y"))
		if m.view != SweepView {
			t.Fatalf("view = %d, want SweepView", m.view)
		}

		_, cmd = m.Update(cmd())
		if m.progress.Phase != tasks.PlanReminders {
			t.Errorf("progress phase = %v", m.progress.Phase)
		}
		if !strings.Contains(m.View(), "Planning reminders") {
			t.Errorf("sweep view:\n%s", m.View())
		}

		m.Update(cmd())
		if m.view != ResultView {
			t.Fatalf("view = %d, want ResultView", m.view)
		}
		out := m.View()
		for _, want := range []string{"Created: 2", "Already scheduled: 1", "Dispatched: 1", "smtp down"} {
			if !strings.Contains(out, want) {
				t.Errorf("result view missing %q:\n%s", want, out)
			}
		}

		_, cmd = m.Update(runes("r"))
		if m.view != ServiceListView || cmd == nil {
			t.Error("r should return to the list and refresh")
		}
	})

	t.Run("decline", func(t *testing.T) {
		m := newModel(&fakeEngine{})
		load(t, m)
		m.Update(runes("s"))
		m.Update(runes("n"))
		if m.view != ServiceListView {
			t.Errorf("view = %d, want ServiceListView", m.view)
		}
	})

	t.Run("no engine", func(t *testing.T) {
		m := newModel(nil)
		load(t, m)
		m.Update(runes("s"))
		if m.view != ServiceListView {
			t.Error("sweep should be disabled without an engine")
		}
	})

	t.Run("failure", func(t *testing.T) {
		m := newModel(&fakeEngine{err: shared.ErrServiceUnavailable})
		load(t, m)
		m.Update(runes("s"))
		_, cmd := m.Update(runes("y"))
		_, cmd = m.Update(cmd())
		m.Update(cmd())

		if !strings.Contains(m.View(), "Sweep failed") {
			t.Errorf("expected failure view:\n%s", m.View())
		}
	})
}

func TestFetchServicesError(t *testing.T) {
	m := NewModel(context.Background(), Deps{Services: &fakeServices{err: errors.New("db locked")}})
	m.Update(m.Init()())

	if m.err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(m.View(), "db locked") {
		t.Errorf("view should show error:\n%s", m.View())
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
