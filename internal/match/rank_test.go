package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/profile"
)

func defaultUniversities(t *testing.T) []*catalog.University {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c.Universities()
}

func ids(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.UniversityID)
	}
	return out
}

func TestParseSortKey(t *testing.T) {
	for in, expect := range map[string]SortKey{"": SortByMatch, "match": SortByMatch, " Rank ": SortByRank, "ent": SortByENT} {
		key, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, expect, key)
	}

	_, err := ParseSortKey("price")
	assert.True(t, errors.Is(err, ErrUnknownSortKey))
}

func TestRankByNationalRankIgnoresScore(t *testing.T) {
	universities := defaultUniversities(t)
	engine := NewEngine()

	for _, p := range []profile.Profile{
		{ENTScore: 50, PreferredCity: "Шымкент"},
		{ENTScore: 140, IELTSScore: 9, Budget: 10_000_000, PreferredCity: profile.AnyCity},
	} {
		ranked := engine.Recommend(universities, p, SortByRank)
		assert.Equal(t, []string{"nu", "kaznu", "kimep", "kbtu", "sdu"}, ids(ranked))
	}
}

func TestRankByENTAscending(t *testing.T) {
	ranked := NewEngine(WithJitter(NoJitter)).Recommend(defaultUniversities(t), profile.Profile{ENTScore: 100}, SortByENT)
	assert.Equal(t, []string{"sdu", "kaznu", "kimep", "kbtu", "nu"}, ids(ranked))
}

func TestRankByMatchIsStable(t *testing.T) {
	results := []Result{
		{UniversityID: "a", Score: 50},
		{UniversityID: "b", Score: 70},
		{UniversityID: "c", Score: 50},
		{UniversityID: "d", Score: 70},
	}

	ranked := Rank(results, SortByMatch)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(ranked))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(results), "input must not be reordered")
}

func TestRankPutsUnresolvedLast(t *testing.T) {
	results := []Result{
		{UniversityID: "ghost"},
		{UniversityID: "nu", University: &catalog.University{NationalRank: 1}},
	}
	assert.Equal(t, []string{"nu", "ghost"}, ids(Rank(results, SortByRank)))
}

func TestEvaluatePicksBestProgram(t *testing.T) {
	engine := NewEngine(WithJitter(NoJitter))
	p := profile.Profile{ENTScore: 126, IELTSScore: 6.5, PreferredCity: profile.AnyCity}

	results := engine.Evaluate(defaultUniversities(t), p)
	require.NotEmpty(t, results)

	nu := results[0]
	assert.Equal(t, "nu", nu.UniversityID)
	assert.Equal(t, "nu-cs", nu.ProgramID)
	assert.Equal(t, ChanceHigh, nu.Chance)
	assert.Equal(t, "nu-nu-cs", nu.CompositeID())
}

func TestSimulateIsPure(t *testing.T) {
	engine := NewEngine(WithJitter(NoJitter))
	universities := defaultUniversities(t)
	stored := profile.Profile{ENTScore: 90, IELTSScore: 5, Budget: 900_000, PreferredCity: "Алматы", Interests: []string{"tech"}}
	snapshot := stored.Clone()

	before := engine.Recommend(universities, stored, SortByMatch)

	simulated := engine.Simulate(universities, stored, profile.Overrides{ENTScore: profile.Float(135), IELTSScore: profile.Float(7.5)}, SortByMatch)
	require.Len(t, simulated, len(before))
	for _, r := range simulated {
		assert.True(t, r.Simulated)
	}
	assert.NotEqual(t, before, simulated)

	after := engine.Recommend(universities, stored, SortByMatch)
	assert.Equal(t, before, after)
	assert.Equal(t, snapshot, stored)
}

func TestSimulateInheritsUnsetFields(t *testing.T) {
	engine := NewEngine(WithJitter(NoJitter))
	universities := defaultUniversities(t)
	stored := profile.Profile{ENTScore: 100, IELTSScore: 6, Budget: 0, PreferredCity: "Алматы"}

	simulated := engine.Simulate(universities, stored, profile.Overrides{Budget: profile.Float(5_000_000)}, SortByRank)
	direct := engine.Recommend(universities, profile.Profile{ENTScore: 100, IELTSScore: 6, Budget: 5_000_000, PreferredCity: "Алматы"}, SortByRank)

	for i := range direct {
		assert.Equal(t, direct[i].Score, simulated[i].Score, direct[i].UniversityID)
	}
}
