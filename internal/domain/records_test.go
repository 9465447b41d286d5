package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGrade_Letter verifies the grade's bonus-bearing letter extraction:
// first character only, upper-cased, modifiers ignored.
func TestGrade_Letter(t *testing.T) {
	tests := []struct {
		grade Grade
		want  string
	}{
		{"A", "A"},
		{"A+", "A"},
		{"a-", "A"},
		{"b+", "B"},
		{"C-", "C"},
		{"F", "F"},
		{"", ""},
		{"   ", ""},
		{" a+ ", "A"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.grade.Letter(), "grade %q", tt.grade)
	}
}

// TestResultRecord_Published verifies status folding.
func TestResultRecord_Published(t *testing.T) {
	assert.True(t, ResultRecord{Status: StatusPublished}.Published())
	assert.True(t, ResultRecord{Status: "Published"}.Published())
	assert.True(t, ResultRecord{Status: " PUBLISHED "}.Published())
	assert.False(t, ResultRecord{Status: StatusPending}.Published())
	assert.False(t, ResultRecord{Status: StatusChecked}.Published())
	assert.False(t, ResultRecord{Status: ""}.Published())
}

// TestResultRecord_PointsFor verifies placement point lookup.
func TestResultRecord_PointsFor(t *testing.T) {
	r := ResultRecord{FirstPoints: 5, SecondPoints: 3, ThirdPoints: 1}
	assert.Equal(t, 5, r.PointsFor(PlacementFirst))
	assert.Equal(t, 3, r.PointsFor(PlacementSecond))
	assert.Equal(t, 1, r.PointsFor(PlacementThird))
	assert.Equal(t, 0, r.PointsFor("fourth"))
}

// TestProgramme_Canonical verifies categorical fields fold to their
// canonical lower-case spellings.
func TestProgramme_Canonical(t *testing.T) {
	p := Programme{
		ID:           "p1",
		Category:     "Arts",
		Subcategory:  " Stage ",
		Section:      "SENIOR",
		PositionType: "Individual",
	}.Canonical()

	assert.Equal(t, CategoryArts, p.Category)
	assert.Equal(t, SubcategoryStage, p.Subcategory)
	assert.Equal(t, SectionSenior, p.Section)
	assert.Equal(t, PositionIndividual, p.PositionType)
	assert.Equal(t, "p1", p.ID)
}

// TestTeamTotals_Add verifies the fold keeps arts and sports as disjoint
// partitions of the total and ignores unknown categories.
func TestTeamTotals_Add(t *testing.T) {
	var totals TeamTotals

	totals = totals.Add(8, CategoryArts)
	totals = totals.Add(5, CategorySports)
	totals = totals.Add(3, CategoryArts)
	totals = totals.Add(99, "")

	assert.Equal(t, 16, totals.Points)
	assert.Equal(t, 3, totals.Results)
	assert.Equal(t, 11, totals.ArtsPoints)
	assert.Equal(t, 5, totals.SportsPoints)
	assert.Equal(t, 2, totals.ArtsResults)
	assert.Equal(t, 1, totals.SportsResults)

	assert.Equal(t, totals.Points, totals.ArtsPoints+totals.SportsPoints)
	assert.Equal(t, totals.Results, totals.ArtsResults+totals.SportsResults)
}
