package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/setlist"
	"github.com/desertthunder/chosen/internal/shared"
	th "github.com/desertthunder/chosen/internal/testing"
)

func testSummary() setlist.Summary {
	return setlist.Summary{
		Title:             "Sunday Morning - Mar 9, 2025",
		Date:              "2025-03-09",
		EstimatedDuration: 30,
		TotalSongs:        3,
		Leaders:           setlist.Leaders{Praise: "Ana", Worship: "Ben", MusicalDirector: setlist.Unassigned},
		Sections: []setlist.SectionSummary{
			{
				Name:   "Praise",
				Target: 2,
				Songs: []setlist.SummaryEntry{
					{Title: "Raise a Hallelujah", OriginalKey: "C", PreferredKey: "C", Order: 1},
					{Title: "Praise, Worthy", OriginalKey: "G", PreferredKey: "A", Order: 2},
				},
			},
			{
				Name:   "Worship",
				Target: 2,
				Songs:  []setlist.SummaryEntry{{Title: "Holy Forever", OriginalKey: "A", PreferredKey: "A", Order: 3}},
			},
		},
		Notes: []string{"Praise: 2 praise song(s) (fast tempo)"},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSummary())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if lines[0] != "Order,Section,Title,Original Key,Preferred Key" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 4 {
			t.Errorf("expected header and 3 rows, got %d lines", len(lines))
		}
		if !strings.Contains(output, `2,Praise,"Praise, Worthy",G,A`) {
			t.Errorf("CSV should quote titles with commas, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testSummary())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Sunday Morning - Mar 9, 2025",
			"**Date**: 2025-03-09",
			"**Duration**: 30 min",
			"- Musical Director: Unassigned",
			"## Praise",
			"2. Praise, Worthy [A] (from G)",
			"1. Raise a Hallelujah [C]\n",
			"> Short: 1 of 2 songs",
			"## Notes",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}

		if strings.Index(output, "## Praise") > strings.Index(output, "## Worship") {
			t.Error("sections should keep their order")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSummary())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Setlist: Sunday Morning - Mar 9, 2025",
			"Leaders: praise Ana, worship Ben, director Unassigned",
			"Worship (1/2)",
			"  3. Holy Forever - A\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("Export JSON", func(t *testing.T) {
		data, err := Export(testSummary(), FormatJSON)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}

		var decoded setlist.Summary
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.TotalSongs != 3 || len(decoded.Sections) != 2 {
			t.Errorf("unexpected decoded summary %+v", decoded)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Export(testSummary(), Format("pdf")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := map[string]Format{
		"":         FormatMarkdown,
		"md":       FormatMarkdown,
		"Markdown": FormatMarkdown,
		"txt":      FormatText,
		"csv":      FormatCSV,
		" json ":   FormatJSON,
	}
	for in, want := range tc {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseFormat("docx"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFormatNotifications(t *testing.T) {
	if got := string(FormatNotifications(nil)); got != "No notifications\n" {
		t.Errorf("unexpected empty output %q", got)
	}

	out := string(FormatNotifications([]models.SetlistNotification{{
		Type:       models.NotificationSetlistReminder,
		TargetDate: "2025-03-09",
		Status:     models.StatusPending,
		Message:    "Reminder: Create setlist for Sunday (Mar 9, 2025)",
	}}))
	if !strings.HasPrefix(out, "2025-03-09  setlist-reminder") || !strings.Contains(out, "Create setlist") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sunday.csv")

		written, err := WriteExport(testSummary(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Holy Forever") {
			t.Errorf("export missing song, got: %s", content)
		}
	})

	t.Run("WithDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteExport(testSummary(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "setlist_2025-03-09.md" {
			t.Errorf("unexpected default path %s", written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		if _, err := WriteExport(testSummary(), FormatText, path); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
