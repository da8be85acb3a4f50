package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/chosen/internal/models"
	"github.com/desertthunder/chosen/internal/scheduling"
	"github.com/desertthunder/chosen/internal/shared"
)

var _ list.Item = serviceItem{}

// serviceRow is a recurring service with its next occurrence resolved.
type serviceRow struct {
	service  models.RecurringService
	next     time.Time
	reminder time.Time
	overdue  bool
	err      error
}

// serviceItem wraps a [serviceRow] to implement [list.Item].
type serviceItem struct {
	row serviceRow
}

func (i serviceItem) FilterValue() string { return i.row.service.Title }
func (i serviceItem) Title() string {
	title := i.row.service.Title
	if !i.row.service.Active {
		title += " " + styles.muted.Render("(inactive)")
	}
	return title
}

func (i serviceItem) Description() string {
	if i.row.err != nil {
		return styles.failed.Render(i.row.err.Error())
	}
	clock, _ := scheduling.FormatServiceTime(i.row.service.Time)
	desc := fmt.Sprintf("%s %s • next %s • setlist due %s",
		scheduling.DayName(i.row.service.DayOfWeek),
		clock,
		shared.FormatDate(i.row.next),
		shared.FormatDate(i.row.reminder),
	)
	if i.row.overdue {
		desc = fmt.Sprintf("%s • %s", desc, styles.attention.Render("overdue"))
	}
	return desc
}
