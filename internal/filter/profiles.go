package filter

import "dancehub/internal/domain"

// ProfileFacets are the active profile filters. Multi-select facets match when any value matches.
type ProfileFacets struct {
	Query        string
	Roles        []string
	Styles       []string
	Languages    []string
	MyLocation   bool
	Viewer       Location
	VerifiedOnly bool
}

// Profiles returns the profiles matching every active facet, in their original order.
func Profiles(items []*domain.Profile, f ProfileFacets) []*domain.Profile {
	query := normalize(f.Query)
	useLocation := f.MyLocation && !f.Viewer.empty()

	out := make([]*domain.Profile, 0, len(items))
	for _, p := range items {
		if p == nil {
			continue
		}
		if query != "" && !anyFieldContains(profileFields(p), query) {
			continue
		}
		if !anyOf(p.Roles, f.Roles) || !anyOf(p.Styles(), f.Styles) || !anyOf(p.Languages, f.Languages) {
			continue
		}
		if useLocation && !f.Viewer.matches(p.City, p.Country) {
			continue
		}
		if f.VerifiedOnly && !p.Verified {
			continue
		}
		out = append(out, p)
	}
	return out
}

func profileFields(p *domain.Profile) []string {
	fields := []string{p.DisplayName, p.City, p.Country}
	fields = append(fields, p.Roles...)
	fields = append(fields, p.Styles()...)
	return append(fields, p.Languages...)
}

// anyOf is true when nothing is selected or have shares a value with selected.
func anyOf(have, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if containsFold(have, s) {
			return true
		}
	}
	return false
}
