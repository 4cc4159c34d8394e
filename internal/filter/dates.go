// Package filter narrows in-memory event and profile lists by user-selected facets.
// Everything here is pure: the same items, facets and clock always give the same result.
package filter

import "time"

// DatePreset names a date range relative to now.
type DatePreset string

const (
	PresetAny         DatePreset = "any"
	PresetToday       DatePreset = "today"
	PresetTomorrow    DatePreset = "tomorrow"
	PresetThisWeekend DatePreset = "this_weekend"
	PresetThisWeek    DatePreset = "this_week"
	PresetNextWeek    DatePreset = "next_week"
	PresetThisMonth   DatePreset = "this_month"
	PresetCustom      DatePreset = "custom"
)

// IsDatePreset reports whether s names a known preset. The empty string means any.
func IsDatePreset(s string) bool {
	switch DatePreset(s) {
	case "", PresetAny, PresetToday, PresetTomorrow, PresetThisWeekend, PresetThisWeek,
		PresetNextWeek, PresetThisMonth, PresetCustom:
		return true
	}
	return false
}

// Range is an inclusive span of calendar days. Start and End are midnights;
// End is the first instant of the last day in the range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on one of the range's days.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End.AddDate(0, 0, 1))
}

// Overlaps reports whether [from, to] shares any instant with the range.
func (r Range) Overlaps(from, to time.Time) bool {
	if to.Before(from) {
		to = from
	}
	return from.Before(r.End.AddDate(0, 0, 1)) && !to.Before(r.Start)
}

// ResolveDateRange turns a preset into concrete days in now's location. Weeks run
// Monday to Sunday. custom is used only for PresetCustom; when one bound is zero
// the range is the single day of the other.
// The boolean is false when the preset does not restrict dates.
func ResolveDateRange(preset DatePreset, now time.Time, custom Range) (Range, bool) {
	today := startOfDay(now)
	// Days since Monday: Monday 0 ... Sunday 6.
	monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

	switch preset {
	case PresetToday:
		return Range{Start: today, End: today}, true
	case PresetTomorrow:
		tomorrow := today.AddDate(0, 0, 1)
		return Range{Start: tomorrow, End: tomorrow}, true
	case PresetThisWeekend:
		saturday := monday.AddDate(0, 0, 5)
		return Range{Start: saturday, End: saturday.AddDate(0, 0, 1)}, true
	case PresetThisWeek:
		return Range{Start: monday, End: monday.AddDate(0, 0, 6)}, true
	case PresetNextWeek:
		next := monday.AddDate(0, 0, 7)
		return Range{Start: next, End: next.AddDate(0, 0, 6)}, true
	case PresetThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return Range{Start: first, End: first.AddDate(0, 1, -1)}, true
	case PresetCustom:
		return customRange(custom, now.Location())
	}
	return Range{}, false
}

func customRange(custom Range, loc *time.Location) (Range, bool) {
	if custom.Start.IsZero() && custom.End.IsZero() {
		return Range{}, false
	}
	start, end := custom.Start, custom.End
	switch {
	case start.IsZero():
		start = end
	case end.IsZero():
		end = start
	}
	start, end = inLocation(start, loc), inLocation(end, loc)
	if end.Before(start) {
		start, end = end, start
	}
	return Range{Start: start, End: end}, true
}

// inLocation keeps the calendar date of t and moves it to loc's midnight.
func inLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
