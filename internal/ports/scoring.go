package ports

import (
	"context"

	"github.com/asherv/festrank/internal/domain"
)

// PositionPoints holds the base points awarded for the three placements
// of one programme result.
type PositionPoints struct {
	First  int `json:"first" yaml:"first"`
	Second int `json:"second" yaml:"second"`
	Third  int `json:"third" yaml:"third"`
}

// For returns the triple's value for the given placement, or zero for an
// unknown placement.
func (p PositionPoints) For(placement domain.Placement) int {
	switch placement {
	case domain.PlacementFirst:
		return p.First
	case domain.PlacementSecond:
		return p.Second
	case domain.PlacementThird:
		return p.Third
	}
	return 0
}

// PointsResolver maps marking-rule inputs onto point values. It is a
// pure, deterministic function of its inputs: no state, no I/O, safe to
// memoize and to call concurrently.
type PointsResolver interface {
	// PositionPoints returns the base points for the three placements
	// given a programme's section, position type, and optional category
	// (empty category means arts). Inputs are case-insensitive.
	//
	// The boolean reports whether a marking rule matched. When no rule
	// matches, the returned points are the {1,1,1} fallback and matched
	// is false; the resolver never fails. Callers decide whether an
	// unmatched combination is worth logging.
	PositionPoints(section domain.Section, positionType domain.PositionType, category domain.Category) (PositionPoints, bool)

	// GradePoints returns the bonus for a grade: 5 for A, 3 for B, 1 for
	// C, 0 for everything else including the empty grade. Only the
	// leading letter is considered and case is ignored.
	GradePoints(grade domain.Grade) int

	// TotalPoints returns the base points for the placement plus the
	// grade bonus, along with the rule-matched flag from PositionPoints.
	TotalPoints(section domain.Section, positionType domain.PositionType, placement domain.Placement, grade domain.Grade, category domain.Category) (int, bool)
}

// TeamResolver derives a team code from a free-text chest number when a
// winner entry carries no explicit team code.
type TeamResolver interface {
	// ResolveTeam returns the team code encoded in the chest number, or
	// an empty string when the number is unresolvable. The roster is
	// consulted only by the lowest-priority substring heuristic; an
	// empty return means the caller should drop the winner silently.
	ResolveTeam(chestNumber string, roster []domain.Team) string
}

// LeaderboardBuilder folds a batch of result records into ranked
// standings. Implementations must be pure with respect to their inputs:
// the same results, reference data, and filter always produce the same
// standings, and input slices are never modified.
type LeaderboardBuilder interface {
	// Build joins, filters, folds, and ranks. Only published results
	// contribute. The context carries cancellation and tracing; the fold
	// itself performs no I/O.
	Build(ctx context.Context, results []domain.ResultRecord, teams []domain.Team, programmes []domain.Programme, filter domain.CategoryFilter) []domain.Standing
}
