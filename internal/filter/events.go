package filter

import (
	"strings"
	"time"

	"dancehub/internal/domain"
)

// Location is the viewer's home location, used by the "my location" facet.
type Location struct {
	City    string
	Country string
}

func (l Location) empty() bool {
	return strings.TrimSpace(l.City) == "" && strings.TrimSpace(l.Country) == ""
}

// matches prefers the city; a viewer with only a country matches on country.
func (l Location) matches(city, country string) bool {
	if c := strings.TrimSpace(l.City); c != "" {
		if !strings.EqualFold(c, strings.TrimSpace(city)) {
			return false
		}
		return l.Country == "" || country == "" || strings.EqualFold(strings.TrimSpace(l.Country), strings.TrimSpace(country))
	}
	return strings.EqualFold(strings.TrimSpace(l.Country), strings.TrimSpace(country))
}

// EventFacets are the active event filters. Zero values mean "any".
type EventFacets struct {
	Query           string
	Visibility      domain.EventVisibility
	MyLocation      bool
	Viewer          Location
	Date            DatePreset
	CustomRange     Range
	Style           string
	Type            string
	ConnectionsOnly bool
}

// Events returns the events matching every active facet, in their original order.
func Events(items []*domain.Event, f EventFacets, now time.Time) []*domain.Event {
	query := normalize(f.Query)
	dates, hasDates := ResolveDateRange(f.Date, now, f.CustomRange)
	useLocation := f.MyLocation && !f.Viewer.empty()

	out := make([]*domain.Event, 0, len(items))
	for _, e := range items {
		if e == nil {
			continue
		}
		if query != "" && !anyFieldContains(eventFields(e), query) {
			continue
		}
		if f.Visibility != "" && e.Visibility != f.Visibility {
			continue
		}
		if useLocation && !f.Viewer.matches(e.City, e.Country) {
			continue
		}
		if hasDates && !dates.Overlaps(e.StartsAt.In(now.Location()), e.EffectiveEnd().In(now.Location())) {
			continue
		}
		if f.Style != "" && !containsFold(e.Styles, f.Style) {
			continue
		}
		if f.Type != "" && !strings.EqualFold(strings.TrimSpace(e.Type), strings.TrimSpace(f.Type)) {
			continue
		}
		if f.ConnectionsOnly && e.ConnectionAttendeeCount <= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func eventFields(e *domain.Event) []string {
	fields := make([]string, 0, 6+len(e.Styles))
	fields = append(fields, e.Title, e.City, e.Country, e.Venue, e.Type, e.HostName)
	return append(fields, e.Styles...)
}

// anyFieldContains reports whether a single field holds query; a match never spans two fields.
func anyFieldContains(fields []string, query string) bool {
	for _, f := range fields {
		if strings.Contains(normalize(f), query) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(values []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
