package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asherv/festrank/infrastructure/roster"
	"github.com/asherv/festrank/infrastructure/scoring"
	"github.com/asherv/festrank/internal/domain"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()

	points, err := scoring.NewResolver(scoring.DefaultConfig())
	require.NoError(t, err)

	chest, err := roster.NewChestResolver(roster.DefaultConfig())
	require.NoError(t, err)

	agg, err := NewAggregator(points, chest, nil, DefaultAggregatorConfig())
	require.NoError(t, err)
	return agg
}

func testTeams() []domain.Team {
	return []domain.Team{
		{Code: "SMD", Name: "Samad", Color: "#ef4444"},
		{Code: "INT", Name: "Intifada"},
		{Code: "AQS", Name: "Aqsa", Color: "#0ea5e9"},
	}
}

func testProgrammes() []domain.Programme {
	return []domain.Programme{
		{ID: "stage1", Category: "arts", Subcategory: "stage", Section: "senior", PositionType: "individual"},
		{ID: "offstage1", Category: "arts", Subcategory: "non-stage", Section: "junior", PositionType: "individual"},
		{ID: "sport1", Category: "sports", Section: "senior", PositionType: "individual"},
		{ID: "teamevent1", Category: "arts", Section: "general", PositionType: "general"},
	}
}

// TestAggregator_EndToEnd reproduces the canonical scenario: one team,
// one published arts result with a graded first place, 3 base points
// plus the A bonus of 5.
func TestAggregator_EndToEnd(t *testing.T) {
	agg := newTestAggregator(t)

	teams := []domain.Team{{Code: "SMD", Name: "Samad"}}
	programmes := []domain.Programme{
		{ID: "p1", Category: "arts", Subcategory: "stage", Section: "senior", PositionType: "individual"},
	}
	results := []domain.ResultRecord{{
		ProgrammeID:  "p1",
		Section:      "senior",
		PositionType: "individual",
		Status:       domain.StatusPublished,
		FirstPlace:   []domain.Winner{{ChestNumber: "SMD101", Grade: "A"}},
		FirstPoints:  3, SecondPoints: 2, ThirdPoints: 1,
	}}

	standings := agg.Build(context.Background(), results, teams, programmes, domain.FilterArtsTotal)

	require.Len(t, standings, 1)
	assert.Equal(t, "SMD", standings[0].TeamCode)
	assert.Equal(t, "Samad", standings[0].Name)
	assert.Equal(t, 8, standings[0].Points)
	assert.Equal(t, 1, standings[0].Results)
	assert.Equal(t, 8, standings[0].ArtsPoints)
	assert.Equal(t, 0, standings[0].SportsPoints)
	assert.Equal(t, domain.DefaultTeamColor, standings[0].Color)
}

// TestAggregator_OnlyPublishedResultsCount verifies pending and checked
// results never feed the leaderboard, whether or not the store already
// filtered them.
func TestAggregator_OnlyPublishedResultsCount(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{
		{
			ProgrammeID: "stage1", Status: domain.StatusPending,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD101", Grade: "A"}},
			FirstPoints: 3,
		},
		{
			ProgrammeID: "stage1", Status: domain.StatusChecked,
			FirstPlace:  []domain.Winner{{ChestNumber: "INT401"}},
			FirstPoints: 3,
		},
		{
			ProgrammeID: "stage1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "AQS601"}},
			FirstPoints: 3,
		},
	}

	standings, report := agg.BuildWithReport(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)

	require.Len(t, standings, 1)
	assert.Equal(t, "AQS", standings[0].TeamCode)
	assert.Equal(t, 1, report.ResultsProcessed)
	assert.Equal(t, 2, report.ResultsSkipped)
}

// TestAggregator_AttributionConservation checks that the number of
// attributed winner entries equals the winner entries whose programme
// has a resolvable category, and that every entry credits exactly one
// team.
func TestAggregator_AttributionConservation(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{
		{
			ProgrammeID: "stage1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD101"}, {ChestNumber: "INT401"}}, // tie, both count
			SecondPlace: []domain.Winner{{ChestNumber: "AQS601"}},
			FirstPoints: 3, SecondPoints: 2,
		},
		{
			ProgrammeID: "sport1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "250"}},
			FirstPoints: 3,
		},
		{
			// No programme document: no category, contributes to neither partition.
			ProgrammeID: "ghost", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD102"}},
			FirstPoints: 3,
		},
	}

	standings, report := agg.BuildWithReport(context.Background(), results, testTeams(), testProgrammes(), domain.FilterAll)

	assert.Equal(t, 4, report.WinnersAttributed)
	assert.Contains(t, report.MissingProgrammes, "ghost")

	totalResults := 0
	for _, row := range standings {
		totalResults += row.ArtsResults + row.SportsResults
	}
	assert.Equal(t, 4, totalResults)
}

// TestAggregator_CategoryPartition verifies sports results never touch
// arts totals and vice versa.
func TestAggregator_CategoryPartition(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{
		{
			ProgrammeID: "stage1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD101", Grade: "B"}},
			FirstPoints: 3,
		},
		{
			ProgrammeID: "sport1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD102"}},
			FirstPoints: 3,
		},
	}

	standings := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterAll)

	require.Len(t, standings, 1)
	row := standings[0]
	assert.Equal(t, "SMD", row.TeamCode)
	assert.Equal(t, 6, row.ArtsPoints, "3 base + 3 grade")
	assert.Equal(t, 3, row.SportsPoints)
	assert.Equal(t, 1, row.ArtsResults)
	assert.Equal(t, 1, row.SportsResults)
}

// TestAggregator_StageFilter verifies only stage programmes contribute
// under arts-stage (and symmetrically for non-stage).
func TestAggregator_StageFilter(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{
		{
			ProgrammeID: "stage1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD101"}},
			FirstPoints: 3,
		},
		{
			ProgrammeID: "offstage1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD102"}},
			FirstPoints: 5,
		},
	}

	stage := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsStage)
	require.Len(t, stage, 1)
	assert.Equal(t, 3, stage[0].Points)
	assert.Equal(t, 1, stage[0].Results)

	offstage := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsNonStage)
	require.Len(t, offstage, 1)
	assert.Equal(t, 5, offstage[0].Points)

	total := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)
	require.Len(t, total, 1)
	assert.Equal(t, 8, total[0].Points)
	assert.Equal(t, 2, total[0].Results)
}

// TestAggregator_TeamWinners verifies team-code winner lists credit the
// named team directly, without chest-number resolution.
func TestAggregator_TeamWinners(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{{
		ProgrammeID: "teamevent1", Status: domain.StatusPublished,
		FirstPlaceTeams:  []domain.TeamWinner{{TeamCode: "AQS", Grade: "A"}},
		SecondPlaceTeams: []domain.TeamWinner{{TeamCode: "SMD"}},
		ThirdPlaceTeams:  []domain.TeamWinner{{TeamCode: "INT"}},
		FirstPoints:      15, SecondPoints: 10, ThirdPoints: 5,
	}}

	standings := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)

	require.Len(t, standings, 3)
	assert.Equal(t, "AQS", standings[0].TeamCode)
	assert.Equal(t, 20, standings[0].Points, "15 base + 5 grade")
	assert.Equal(t, "SMD", standings[1].TeamCode)
	assert.Equal(t, 10, standings[1].Points)
	assert.Equal(t, "INT", standings[2].TeamCode)
	assert.Equal(t, 5, standings[2].Points)
}

// TestAggregator_SportsProjection verifies the sports filter projects
// the sports partition for display.
func TestAggregator_SportsProjection(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{
		{
			ProgrammeID: "stage1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "SMD101"}},
			FirstPoints: 3,
		},
		{
			ProgrammeID: "sport1", Status: domain.StatusPublished,
			FirstPlace:  []domain.Winner{{ChestNumber: "INT401"}},
			FirstPoints: 3,
		},
	}

	standings := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterSports)

	require.Len(t, standings, 1)
	assert.Equal(t, "INT", standings[0].TeamCode)
	assert.Equal(t, 3, standings[0].Points)
	assert.Equal(t, 3, standings[0].SportsPoints)
	assert.Equal(t, 0, standings[0].ArtsPoints)
}

// TestAggregator_ZeroPointTeamsExcluded verifies roster teams with no
// qualifying points never appear in the output.
func TestAggregator_ZeroPointTeamsExcluded(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{{
		ProgrammeID: "stage1", Status: domain.StatusPublished,
		FirstPlace:  []domain.Winner{{ChestNumber: "SMD101"}},
		FirstPoints: 3,
	}}

	standings := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)

	require.Len(t, standings, 1)
	assert.Equal(t, "SMD", standings[0].TeamCode)
}

// TestAggregator_TieOrderIsStable verifies tied teams keep roster order
// rather than being reordered arbitrarily.
func TestAggregator_TieOrderIsStable(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{{
		ProgrammeID: "stage1", Status: domain.StatusPublished,
		FirstPlace:  []domain.Winner{{ChestNumber: "AQS601"}, {ChestNumber: "SMD101"}},
		FirstPoints: 3,
	}}

	// SMD precedes AQS in the roster; equal points must preserve that.
	standings := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)

	require.Len(t, standings, 2)
	assert.Equal(t, "SMD", standings[0].TeamCode)
	assert.Equal(t, "AQS", standings[1].TeamCode)
	assert.Equal(t, standings[0].Points, standings[1].Points)
}

// TestAggregator_DroppedWinners verifies unresolvable chest numbers and
// unknown team codes are dropped silently and reported.
func TestAggregator_DroppedWinners(t *testing.T) {
	agg := newTestAggregator(t)

	results := []domain.ResultRecord{{
		ProgrammeID: "stage1", Status: domain.StatusPublished,
		FirstPlace: []domain.Winner{
			{ChestNumber: "SMD101"},
			{ChestNumber: "##--"},  // unresolvable
			{ChestNumber: "XY900"}, // resolves to XY, not in roster
		},
		FirstPlaceTeams: []domain.TeamWinner{{TeamCode: "ZZZ"}}, // unknown code
		FirstPoints:     3,
	}}

	standings, report := agg.BuildWithReport(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)

	require.Len(t, standings, 1)
	assert.Equal(t, "SMD", standings[0].TeamCode)
	assert.Equal(t, 3, standings[0].Points)

	assert.Equal(t, 1, report.WinnersAttributed)
	assert.Equal(t, []string{"##--"}, report.UnresolvedChestNumbers)
	assert.ElementsMatch(t, []string{"XY", "ZZZ"}, report.UnknownTeamCodes)
}

// TestAggregator_EmptyInputs verifies empty winner lists and empty
// batches yield an empty leaderboard without errors.
func TestAggregator_EmptyInputs(t *testing.T) {
	agg := newTestAggregator(t)

	assert.Empty(t, agg.Build(context.Background(), nil, testTeams(), testProgrammes(), domain.FilterArtsTotal))

	results := []domain.ResultRecord{{
		ProgrammeID: "stage1", Status: domain.StatusPublished,
		FirstPoints: 3, SecondPoints: 2, ThirdPoints: 1,
	}}
	assert.Empty(t, agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal))
}

// TestAggregator_GradeBonusRecomputedLive verifies the fold trusts the
// record's frozen base points but resolves the grade bonus through the
// current grade table.
func TestAggregator_GradeBonusRecomputedLive(t *testing.T) {
	points, err := scoring.NewResolver(scoring.Config{
		Rules:    scoring.DefaultConfig().Rules,
		Fallback: scoring.DefaultConfig().Fallback,
		Grades:   map[string]int{"A": 10}, // doubled A bonus
	})
	require.NoError(t, err)

	chest, err := roster.NewChestResolver(roster.DefaultConfig())
	require.NoError(t, err)

	agg, err := NewAggregator(points, chest, nil, DefaultAggregatorConfig())
	require.NoError(t, err)

	results := []domain.ResultRecord{{
		ProgrammeID: "stage1", Status: domain.StatusPublished,
		// Recorded with 3 base points under the old rules; base stays frozen.
		FirstPlace:  []domain.Winner{{ChestNumber: "SMD101", Grade: "A"}},
		FirstPoints: 3,
	}}

	standings := agg.Build(context.Background(), results, testTeams(), testProgrammes(), domain.FilterArtsTotal)

	require.Len(t, standings, 1)
	assert.Equal(t, 13, standings[0].Points, "frozen 3 base + live 10 grade")
}

// TestNewAggregator_Validation covers constructor error paths.
func TestNewAggregator_Validation(t *testing.T) {
	points, err := scoring.NewResolver(scoring.DefaultConfig())
	require.NoError(t, err)
	chest, err := roster.NewChestResolver(roster.DefaultConfig())
	require.NoError(t, err)

	t.Run("requires points resolver", func(t *testing.T) {
		_, err := NewAggregator(nil, chest, nil, DefaultAggregatorConfig())
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("requires team resolver", func(t *testing.T) {
		_, err := NewAggregator(points, nil, nil, DefaultAggregatorConfig())
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("rejects malformed default color", func(t *testing.T) {
		_, err := NewAggregator(points, chest, nil, Config{DefaultColor: "rebeccapurple"})
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
}
