package schedule

import "time"

// Window is the half-open interval [Start, End) used to fetch appointments
// for a calendar view.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Compute maps (anchor, view) to the fetch window, in the anchor's location.
//
//   - day:   midnight of the anchor to midnight of the next day
//   - week:  the ISO week (Monday-start) containing the anchor
//   - month: the Monday-aligned grid window; wider than the literal month so
//     it covers every day shown in a 7-column month grid
//   - year:  Jan 1 to Jan 1 of the next year
func Compute(anchor time.Time, view View) Window {
	loc := anchor.Location()
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	switch view {
	case ViewWeek:
		start := startOfISOWeek(day)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}

	case ViewMonth:
		firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
		start := startOfISOWeek(firstOfMonth)
		end := startOfISOWeek(lastOfMonth).AddDate(0, 0, 7)
		return Window{Start: start, End: end}

	case ViewYear:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Window{Start: start, End: start.AddDate(1, 0, 0)}

	default: // ViewDay
		return Window{Start: day, End: day.AddDate(0, 0, 1)}
	}
}

// Next shifts the anchor forward by exactly one unit of the view.
func Next(anchor time.Time, view View) time.Time {
	switch view {
	case ViewWeek:
		return anchor.AddDate(0, 0, 7)
	case ViewMonth:
		return anchor.AddDate(0, 1, 0)
	case ViewYear:
		return anchor.AddDate(1, 0, 0)
	default:
		return anchor.AddDate(0, 0, 1)
	}
}

// Prev shifts the anchor backward by exactly one unit of the view.
func Prev(anchor time.Time, view View) time.Time {
	switch view {
	case ViewWeek:
		return anchor.AddDate(0, 0, -7)
	case ViewMonth:
		return anchor.AddDate(0, -1, 0)
	case ViewYear:
		return anchor.AddDate(-1, 0, 0)
	default:
		return anchor.AddDate(0, 0, -1)
	}
}

// startOfISOWeek returns the Monday midnight of the week containing t.
func startOfISOWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
