// Package domain contains pure, dependency-free domain models and types
// for the festival scoring engine.
package domain

import "strings"

// Section identifies the competition age bracket a programme belongs to.
// The general section is team-vs-team competition without an age bracket.
type Section string

// Competition sections recognized by the marking rules.
const (
	SectionSenior    Section = "senior"
	SectionJunior    Section = "junior"
	SectionSubJunior Section = "sub-junior"
	SectionGeneral   Section = "general"
)

// PositionType describes how a programme is contested: by individual
// participants, by ad-hoc groups identified through chest numbers, or by
// whole teams competing directly.
type PositionType string

// Position types recognized by the marking rules.
const (
	PositionIndividual PositionType = "individual"
	PositionGroup      PositionType = "group"
	PositionGeneral    PositionType = "general"
)

// Category is the top-level competition track. Arts and sports carry
// separate point schedules and are accumulated as disjoint partitions
// of a team's total.
type Category string

// Competition categories.
const (
	CategoryArts   Category = "arts"
	CategorySports Category = "sports"
)

// Subcategory splits arts programmes into stage and non-stage events.
// Sports programmes carry no subcategory.
type Subcategory string

// Arts subcategories.
const (
	SubcategoryStage    Subcategory = "stage"
	SubcategoryNonStage Subcategory = "non-stage"
)

// Status tracks a result record through its editorial lifecycle.
// Only published results feed the leaderboard.
type Status string

// Result statuses.
const (
	StatusPending   Status = "pending"
	StatusChecked   Status = "checked"
	StatusPublished Status = "published"
)

// Grade is a qualitative performance rating (A+ through F) awarded
// independently of placement. Only the leading letter carries bonus value.
type Grade string

// Letter returns the grade's leading letter folded to upper case, or an
// empty string for an empty grade. Trailing modifiers ("+", "-") and any
// other suffix are ignored so that "a-" and "A+" behave as "A".
func (g Grade) Letter() string {
	s := strings.TrimSpace(string(g))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1])
}

// Placement identifies one of the three awarded positions in a result.
type Placement string

// Awarded placements.
const (
	PlacementFirst  Placement = "first"
	PlacementSecond Placement = "second"
	PlacementThird  Placement = "third"
)

// Team is reference data describing one competing team. Teams are
// immutable during aggregation; Code is the unique key every point
// contribution is attributed to.
type Team struct {
	// Code uniquely identifies the team (e.g. "SMD").
	Code string `json:"code" yaml:"code"`

	// Name is the team's display name.
	Name string `json:"name" yaml:"name"`

	// Color is the team's display color as a CSS hex string.
	// Empty means the consumer should fall back to DefaultTeamColor.
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Programme is reference data describing one competition event. It is
// joined onto result records by ID to supply the category, subcategory,
// section, and position type the marking rules key on.
type Programme struct {
	// ID is the opaque document identifier referenced by ResultRecord.
	ID string `json:"id" yaml:"id"`

	// Name is the programme's display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Category is arts or sports.
	Category Category `json:"category" yaml:"category"`

	// Subcategory is stage or non-stage; arts programmes only.
	Subcategory Subcategory `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`

	// Section is the age bracket the programme is contested in.
	Section Section `json:"section" yaml:"section"`

	// PositionType is how the programme is contested.
	PositionType PositionType `json:"position_type" yaml:"position_type"`
}

// Canonical returns a copy of the programme with its categorical fields
// folded to their lower-case canonical spellings, so documents stored
// with mixed casing compare equal to the domain constants.
func (p Programme) Canonical() Programme {
	p.Category = Category(strings.ToLower(strings.TrimSpace(string(p.Category))))
	p.Subcategory = Subcategory(strings.ToLower(strings.TrimSpace(string(p.Subcategory))))
	p.Section = Section(strings.ToLower(strings.TrimSpace(string(p.Section))))
	p.PositionType = PositionType(strings.ToLower(strings.TrimSpace(string(p.PositionType))))
	return p
}

// Winner is one chest-number-identified entrant at a placement.
// Team attribution is derived from the chest number's prefix or digits.
type Winner struct {
	// ChestNumber is the free-text identifier worn by the participant.
	ChestNumber string `json:"chest_number" yaml:"chest_number"`

	// Grade is the optional performance rating; empty means ungraded.
	Grade Grade `json:"grade,omitempty" yaml:"grade,omitempty"`
}

// TeamWinner is one team-identified entrant at a placement, used when a
// programme's position type is general and teams compete directly.
type TeamWinner struct {
	// TeamCode is the explicit team code the points are attributed to.
	TeamCode string `json:"team_code" yaml:"team_code"`

	// Grade is the optional performance rating; empty means ungraded.
	Grade Grade `json:"grade,omitempty" yaml:"grade,omitempty"`
}

// ResultRecord is the read-only input the aggregator folds over. Each
// record carries the winners per placement plus the base points the
// result was recorded with. Position points are captured once on the
// write path and frozen; only grade bonuses are recomputed live when a
// leaderboard is built.
type ResultRecord struct {
	// ProgrammeID references the Programme this result belongs to.
	ProgrammeID string `json:"programme_id" yaml:"programme_id"`

	// Section is the age bracket the result was recorded under.
	Section Section `json:"section" yaml:"section"`

	// PositionType is how the result's programme was contested.
	PositionType PositionType `json:"position_type" yaml:"position_type"`

	// Status is the editorial status; only published records count.
	Status Status `json:"status" yaml:"status"`

	// FirstPlace, SecondPlace, and ThirdPlace list chest-number winners
	// per placement. Multiple entries at one placement are ties and each
	// earns full points independently.
	FirstPlace  []Winner `json:"first_place,omitempty" yaml:"first_place,omitempty"`
	SecondPlace []Winner `json:"second_place,omitempty" yaml:"second_place,omitempty"`
	ThirdPlace  []Winner `json:"third_place,omitempty" yaml:"third_place,omitempty"`

	// FirstPlaceTeams, SecondPlaceTeams, and ThirdPlaceTeams list
	// team-code winners for programmes contested by whole teams.
	FirstPlaceTeams  []TeamWinner `json:"first_place_teams,omitempty" yaml:"first_place_teams,omitempty"`
	SecondPlaceTeams []TeamWinner `json:"second_place_teams,omitempty" yaml:"second_place_teams,omitempty"`
	ThirdPlaceTeams  []TeamWinner `json:"third_place_teams,omitempty" yaml:"third_place_teams,omitempty"`

	// FirstPoints, SecondPoints, and ThirdPoints are the base points the
	// result was recorded with for each placement.
	FirstPoints  int `json:"first_points" yaml:"first_points"`
	SecondPoints int `json:"second_points" yaml:"second_points"`
	ThirdPoints  int `json:"third_points" yaml:"third_points"`
}

// Published reports whether the record's status is published, folding
// case so documents stored with mixed casing still qualify.
func (r ResultRecord) Published() bool {
	return Status(strings.ToLower(strings.TrimSpace(string(r.Status)))) == StatusPublished
}

// PointsFor returns the record's frozen base points for the given
// placement. Unknown placements yield zero.
func (r ResultRecord) PointsFor(p Placement) int {
	switch p {
	case PlacementFirst:
		return r.FirstPoints
	case PlacementSecond:
		return r.SecondPoints
	case PlacementThird:
		return r.ThirdPoints
	}
	return 0
}
