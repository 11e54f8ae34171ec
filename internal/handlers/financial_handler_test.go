package handlers

import (
	"testing"
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/domain/schedule"
	"github.com/InkLinkStudio/studio-crm/internal/timezone"
)

func TestFinancialRangeIsLiteralCalendarMonth(t *testing.T) {
	loc := timezone.Location("Europe/Rome")
	anchor := time.Date(2024, time.June, 10, 0, 0, 0, 0, loc)

	start, end := financialRange(anchor, schedule.ViewMonth)

	if !start.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Equal(time.Date(2024, time.July, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestPeriodReferenceIsFinalDayNotAnchor(t *testing.T) {
	loc := timezone.Location("Europe/Rome")

	// A month view anchored mid-month still rolls up against the last
	// day of that month.
	anchor := time.Date(2024, time.June, 10, 0, 0, 0, 0, loc)
	_, end := financialRange(anchor, schedule.ViewMonth)
	ref := periodReference(end)

	want := time.Date(2024, time.June, 30, 0, 0, 0, 0, loc)
	if !ref.Equal(want) {
		t.Fatalf("month reference = %v, want %v", ref, want)
	}

	// The week rollup derived from that reference covers the month's
	// final week, which an anchor-based reference would miss.
	week := schedule.Compute(ref, schedule.ViewWeek)
	lateJune := time.Date(2024, time.June, 28, 12, 0, 0, 0, loc)
	if !week.Contains(lateJune) {
		t.Fatalf("week window %v-%v should contain %v", week.Start, week.End, lateJune)
	}
	anchorWeek := schedule.Compute(anchor, schedule.ViewWeek)
	if anchorWeek.Contains(lateJune) {
		t.Fatalf("anchor week should not contain %v", lateJune)
	}

	// Year view references December 31st.
	_, yearEnd := financialRange(anchor, schedule.ViewYear)
	yearRef := periodReference(yearEnd)
	if yearRef.Month() != time.December || yearRef.Day() != 31 {
		t.Fatalf("year reference = %v, want December 31st", yearRef)
	}
}
