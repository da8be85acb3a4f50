// package formatter renders setlist summaries and reminders as Markdown, plain text, CSV and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/setlist"
	"github.com/desertthunder/chosen/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// ParseFormat accepts a format name, defaulting to Markdown for blank input.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	case FormatMarkdown, FormatText, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders summary in format f.
func Export(summary setlist.Summary, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return ExportToMarkdown(summary)
	case FormatText:
		return ExportToText(summary)
	case FormatCSV:
		return ExportToCSV(summary)
	case FormatJSON:
		return shared.MarshalJSON(summary, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// ExportToCSV writes one row per song with columns: Order, Section, Title, Original Key, Preferred Key
func ExportToCSV(summary setlist.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Order", "Section", "Title", "Original Key", "Preferred Key"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, section := range summary.Sections {
		for _, song := range section.Songs {
			record := []string{
				strconv.Itoa(song.Order),
				section.Name,
				song.Title,
				song.OriginalKey,
				song.PreferredKey,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the summary as a Markdown document with one heading per section
func ExportToMarkdown(summary setlist.Summary) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", summary.Title)
	fmt.Fprintf(&buf, "**Date**: %s\n", summary.Date)
	fmt.Fprintf(&buf, "**Songs**: %d\n", summary.TotalSongs)
	if summary.EstimatedDuration > 0 {
		fmt.Fprintf(&buf, "**Duration**: %d min\n", summary.EstimatedDuration)
	}
	buf.WriteString("\n## Team\n\n")
	fmt.Fprintf(&buf, "- Praise: %s\n", summary.Leaders.Praise)
	fmt.Fprintf(&buf, "- Worship: %s\n", summary.Leaders.Worship)
	fmt.Fprintf(&buf, "- Musical Director: %s\n", summary.Leaders.MusicalDirector)

	for _, section := range summary.Sections {
		fmt.Fprintf(&buf, "\n## %s\n\n", section.Name)
		if len(section.Songs) == 0 {
			buf.WriteString("_No songs_\n")
		}
		for _, song := range section.Songs {
			fmt.Fprintf(&buf, "%d. %s [%s]%s\n", song.Order, song.Title, song.PreferredKey, keyChange(song))
		}
		if section.Short() {
			fmt.Fprintf(&buf, "\n> Short: %d of %d songs\n", len(section.Songs), section.Target)
		}
	}

	if len(summary.Notes) > 0 {
		buf.WriteString("\n## Notes\n\n")
		for _, note := range summary.Notes {
			fmt.Fprintf(&buf, "- %s\n", note)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders the summary as plain text
func ExportToText(summary setlist.Summary) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Setlist: %s\n", summary.Title)
	fmt.Fprintf(&buf, "Date: %s\n", summary.Date)
	fmt.Fprintf(&buf, "Leaders: praise %s, worship %s, director %s\n",
		summary.Leaders.Praise, summary.Leaders.Worship, summary.Leaders.MusicalDirector)
	fmt.Fprintf(&buf, "Songs: %d\n", summary.TotalSongs)

	for _, section := range summary.Sections {
		fmt.Fprintf(&buf, "\n%s", section.Name)
		if section.Target > 0 {
			fmt.Fprintf(&buf, " (%d/%d)", len(section.Songs), section.Target)
		}
		buf.WriteString("\n")
		for _, song := range section.Songs {
			fmt.Fprintf(&buf, "  %d. %s - %s%s\n", song.Order, song.Title, song.PreferredKey, keyChange(song))
		}
	}

	return buf.Bytes(), nil
}

func keyChange(song setlist.SummaryEntry) string {
	if song.PreferredKey == song.OriginalKey {
		return ""
	}
	return fmt.Sprintf(" (from %s)", song.OriginalKey)
}

// FormatNotifications renders one line per notification: target date, type, status, message.
func FormatNotifications(notifications []models.SetlistNotification) []byte {
	var buf bytes.Buffer
	if len(notifications) == 0 {
		buf.WriteString("No notifications\n")
		return buf.Bytes()
	}
	for _, n := range notifications {
		fmt.Fprintf(&buf, "%s  %-16s  %-12s  %s\n", n.TargetDate, n.Type, n.Status, n.Message)
	}
	return buf.Bytes()
}

// WriteExport renders summary and writes it to path.
//
// Defaults to setlist_{date}.{ext} as the filename.
func WriteExport(summary setlist.Summary, f Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("setlist_%s.%s", summary.Date, f.Extension())
	}

	data, err := Export(summary, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
