package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dancehub/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseEventFacets reads event facets from query parameters:
// q, visibility, my_location, date, from, to, style, type, connections_only.
// The viewer location is filled in by the caller.
func ParseEventFacets(q url.Values) (EventFacets, error) {
	f := EventFacets{
		Query: q.Get("q"),
		Style: strings.TrimSpace(q.Get("style")),
		Type:  strings.TrimSpace(q.Get("type")),
	}

	switch v := domain.EventVisibility(q.Get("visibility")); v {
	case "", "any":
	case domain.VisibilityPublic, domain.VisibilityPrivate:
		f.Visibility = v
	default:
		return EventFacets{}, fmt.Errorf("%w: visibility must be public or private", domain.ErrInvalidInput)
	}

	var err error
	if f.MyLocation, err = parseFlag(q, "my_location"); err != nil {
		return EventFacets{}, err
	}
	if f.ConnectionsOnly, err = parseFlag(q, "connections_only"); err != nil {
		return EventFacets{}, err
	}

	preset := q.Get("date")
	if !IsDatePreset(preset) {
		return EventFacets{}, fmt.Errorf("%w: unknown date preset %q", domain.ErrInvalidInput, preset)
	}
	f.Date = DatePreset(preset)
	if f.CustomRange.Start, err = parseDate(q, "from"); err != nil {
		return EventFacets{}, err
	}
	if f.CustomRange.End, err = parseDate(q, "to"); err != nil {
		return EventFacets{}, err
	}
	if f.Date == "" && (!f.CustomRange.Start.IsZero() || !f.CustomRange.End.IsZero()) {
		f.Date = PresetCustom
	}
	return f, nil
}

// ParseProfileFacets reads profile facets from query parameters:
// q, role, style, language (repeatable or comma-separated), my_location, verified.
func ParseProfileFacets(q url.Values) (ProfileFacets, error) {
	f := ProfileFacets{
		Query:     q.Get("q"),
		Roles:     multi(q, "role"),
		Styles:    multi(q, "style"),
		Languages: multi(q, "language"),
	}
	var err error
	if f.MyLocation, err = parseFlag(q, "my_location"); err != nil {
		return ProfileFacets{}, err
	}
	if f.VerifiedOnly, err = parseFlag(q, "verified"); err != nil {
		return ProfileFacets{}, err
	}
	return f, nil
}

func parseFlag(q url.Values, name string) (bool, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, name)
	}
	return v, nil
}

func parseDate(q url.Values, name string) (time.Time, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidInput, name)
	}
	return t, nil
}

func multi(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
