package schedule

import (
	"strings"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
)

// ===============================
// Calendar View
// ===============================

type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
	ViewYear  View = "year"
)

// ParseView accepts the view granularity case-insensitively.
// Internal logic only ever sees the enum.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewDay:
		return ViewDay, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	case ViewYear:
		return ViewYear, nil
	}
	return "", httperr.ErrBusiness("invalid_view")
}
