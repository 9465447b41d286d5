package domain

import "strings"

// CategoryFilter selects which results contribute to a leaderboard and
// which totals partition is projected for display. It replaces ad hoc
// string branching at call sites with a tagged strategy: each filter
// knows its own programme predicate and display projection.
type CategoryFilter string

// Recognized leaderboard filters. Any other value behaves as FilterAll.
const (
	// FilterArtsTotal keeps arts programmes of every subcategory.
	FilterArtsTotal CategoryFilter = "arts-total"

	// FilterArtsStage keeps arts programmes contested on stage.
	FilterArtsStage CategoryFilter = "arts-stage"

	// FilterArtsNonStage keeps arts programmes contested off stage.
	FilterArtsNonStage CategoryFilter = "arts-non-stage"

	// FilterSports keeps sports programmes.
	FilterSports CategoryFilter = "sports"

	// FilterAll passes every result through unfiltered.
	FilterAll CategoryFilter = "all"
)

// ParseCategoryFilter maps a request-supplied filter string onto a
// recognized filter. Unrecognized values fall back to FilterAll rather
// than failing, matching the engine's silent-degradation posture; an
// empty string falls back to FilterArtsTotal, the default leaderboard.
func ParseCategoryFilter(s string) CategoryFilter {
	switch CategoryFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterArtsTotal:
		return FilterArtsTotal
	case FilterArtsStage:
		return FilterArtsStage
	case FilterArtsNonStage:
		return FilterArtsNonStage
	case FilterSports:
		return FilterSports
	case "":
		return FilterArtsTotal
	}
	return FilterAll
}

// Matches reports whether a result joined to the given programme
// contributes under this filter. A nil programme (failed join) matches
// no concrete filter and only passes FilterAll.
func (f CategoryFilter) Matches(p *Programme) bool {
	switch f {
	case FilterArtsTotal:
		return p != nil && p.Category == CategoryArts
	case FilterArtsStage:
		return p != nil && p.Category == CategoryArts && p.Subcategory == SubcategoryStage
	case FilterArtsNonStage:
		return p != nil && p.Category == CategoryArts && p.Subcategory == SubcategoryNonStage
	case FilterSports:
		return p != nil && p.Category == CategorySports
	}
	return true
}

// DisplaySports reports whether standings built under this filter should
// project the sports partition for display. All arts filters and the
// pass-all filter project the arts partition.
func (f CategoryFilter) DisplaySports() bool { return f == FilterSports }
