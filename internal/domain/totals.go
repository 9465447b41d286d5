package domain

// DefaultTeamColor is attached to standings whose team record carries
// no color of its own.
const DefaultTeamColor = "#6366f1"

// TeamTotals accumulates one team's scoring history across a batch of
// results. Arts and sports fields are disjoint partitions of the total:
// Points == ArtsPoints + SportsPoints and Results == ArtsResults +
// SportsResults hold for every fold the aggregator performs. TeamTotals
// is a value type; the aggregator derives new values rather than
// mutating shared state.
type TeamTotals struct {
	Points        int `json:"points"`
	Results       int `json:"results"`
	ArtsPoints    int `json:"arts_points"`
	SportsPoints  int `json:"sports_points"`
	ArtsResults   int `json:"arts_results"`
	SportsResults int `json:"sports_results"`
}

// Add returns a copy of the totals with one winner entry's points folded
// in under the given category. Winners whose programme category is
// neither arts nor sports contribute nothing, preserving the partition
// invariant.
func (t TeamTotals) Add(points int, category Category) TeamTotals {
	switch category {
	case CategoryArts:
		t.Points += points
		t.Results++
		t.ArtsPoints += points
		t.ArtsResults++
	case CategorySports:
		t.Points += points
		t.Results++
		t.SportsPoints += points
		t.SportsResults++
	}
	return t
}

// Standing is one ranked row of a built leaderboard. Points and Results
// hold the display projection for the filter the leaderboard was built
// with (sports fields for the sports filter, arts fields otherwise);
// the per-category fields are always carried in full.
type Standing struct {
	// TeamCode is the team's unique code.
	TeamCode string `json:"team_code"`

	// Name is the team's display name.
	Name string `json:"name"`

	// Points and Results are the filter-projected display values the
	// standings are ranked by.
	Points  int `json:"points"`
	Results int `json:"results"`

	ArtsPoints    int `json:"arts_points"`
	SportsPoints  int `json:"sports_points"`
	ArtsResults   int `json:"arts_results"`
	SportsResults int `json:"sports_results"`

	// Color is the team's display color, defaulted when the team record
	// carries none.
	Color string `json:"color"`
}
