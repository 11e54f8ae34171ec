package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindowContainsAnchor(t *testing.T) {
	anchors := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.February, 29),
		date(2024, time.June, 15),
		date(2024, time.December, 31),
		time.Date(2025, time.March, 9, 17, 45, 12, 0, time.UTC),
	}

	for _, view := range []View{ViewDay, ViewWeek, ViewMonth, ViewYear} {
		for _, anchor := range anchors {
			w := Compute(anchor, view)
			if anchor.Before(w.Start) || !anchor.Before(w.End) {
				t.Errorf("view %s: anchor %v outside window [%v, %v)", view, anchor, w.Start, w.End)
			}
		}
	}
}

func TestDayWindow(t *testing.T) {
	anchor := time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)
	w := Compute(anchor, ViewDay)

	if !w.Start.Equal(date(2024, time.June, 15)) {
		t.Errorf("start = %v, want midnight of June 15", w.Start)
	}
	if !w.End.Equal(date(2024, time.June, 16)) {
		t.Errorf("end = %v, want midnight of June 16", w.End)
	}
}

func TestWeekWindowStartsMonday(t *testing.T) {
	// 2024-06-15 is a Saturday; the ISO week starts Monday June 10.
	w := Compute(date(2024, time.June, 15), ViewWeek)

	if !w.Start.Equal(date(2024, time.June, 10)) {
		t.Errorf("start = %v, want Monday June 10", w.Start)
	}
	if !w.End.Equal(date(2024, time.June, 17)) {
		t.Errorf("end = %v, want Monday June 17 (exclusive)", w.End)
	}

	// Monday anchors its own week.
	w = Compute(date(2024, time.June, 10), ViewWeek)
	if !w.Start.Equal(date(2024, time.June, 10)) {
		t.Errorf("monday anchor: start = %v, want the same Monday", w.Start)
	}
}

func TestMonthWindowGridAlignment(t *testing.T) {
	cases := []struct {
		anchor     time.Time
		wantStart  time.Time
		wantEndExc time.Time
	}{
		// June 2024: 1st is a Saturday, 30th is a Sunday.
		{date(2024, time.June, 15), date(2024, time.May, 27), date(2024, time.July, 1)},
		// September 2025: 1st is a Monday, 30th a Tuesday.
		{date(2025, time.September, 1), date(2025, time.September, 1), date(2025, time.October, 6)},
		// February 2021: 1st Monday, 28th Sunday — exact 4-week grid.
		{date(2021, time.February, 14), date(2021, time.February, 1), date(2021, time.March, 1)},
	}

	for _, tc := range cases {
		w := Compute(tc.anchor, ViewMonth)
		if !w.Start.Equal(tc.wantStart) {
			t.Errorf("anchor %v: start = %v, want %v", tc.anchor, w.Start, tc.wantStart)
		}
		if !w.End.Equal(tc.wantEndExc) {
			t.Errorf("anchor %v: end = %v, want %v", tc.anchor, w.End, tc.wantEndExc)
		}

		if w.Start.Weekday() != time.Monday {
			t.Errorf("anchor %v: month grid must start on Monday, got %v", tc.anchor, w.Start.Weekday())
		}
		lastDay := w.End.AddDate(0, 0, -1)
		if lastDay.Weekday() != time.Sunday {
			t.Errorf("anchor %v: month grid must end on Sunday, got %v", tc.anchor, lastDay.Weekday())
		}

		// The grid fully contains the calendar month of the anchor.
		first := date(tc.anchor.Year(), tc.anchor.Month(), 1)
		last := first.AddDate(0, 1, -1)
		if !w.Contains(first) || !w.Contains(last) {
			t.Errorf("anchor %v: grid [%v, %v) does not cover the month", tc.anchor, w.Start, w.End)
		}
	}
}

func TestYearWindow(t *testing.T) {
	w := Compute(date(2024, time.August, 20), ViewYear)
	if !w.Start.Equal(date(2024, time.January, 1)) || !w.End.Equal(date(2025, time.January, 1)) {
		t.Errorf("year window = [%v, %v)", w.Start, w.End)
	}
}

func TestNavigationShiftsOneUnit(t *testing.T) {
	anchor := date(2024, time.January, 31)

	if got := Next(anchor, ViewDay); !got.Equal(date(2024, time.February, 1)) {
		t.Errorf("next day = %v", got)
	}
	if got := Next(anchor, ViewWeek); !got.Equal(date(2024, time.February, 7)) {
		t.Errorf("next week = %v", got)
	}
	if got := Next(anchor, ViewYear); !got.Equal(date(2025, time.January, 31)) {
		t.Errorf("next year = %v", got)
	}
	if got := Prev(date(2024, time.March, 4), ViewWeek); !got.Equal(date(2024, time.February, 26)) {
		t.Errorf("prev week = %v", got)
	}

	// prev then next round-trips for fixed-size units.
	for _, view := range []View{ViewDay, ViewWeek, ViewYear} {
		if got := Next(Prev(anchor, view), view); !got.Equal(anchor) {
			t.Errorf("view %s: prev/next did not round-trip: %v", view, got)
		}
	}
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{
		"day": ViewDay, "WEEK": ViewWeek, " Month ": ViewMonth, "year": ViewYear,
	} {
		got, err := ParseView(in)
		if err != nil || got != want {
			t.Errorf("ParseView(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseView("fortnight"); err == nil {
		t.Error("expected error for unknown view")
	}
}
