package match

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/profile"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey selects the ordering of ranked results.
type SortKey string

const (
	SortByMatch SortKey = "match"
	SortByRank  SortKey = "rank"
	SortByENT   SortKey = "ent"
)

// ParseSortKey accepts match, rank or ent; empty means match.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortByMatch, nil
	case SortByMatch, SortByRank, SortByENT:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q (expected match, rank or ent)", ErrUnknownSortKey, s)
	}
}

// Result is a derived, never persisted match of a university for a profile.
type Result struct {
	UniversityID string
	ProgramID    string
	University   *catalog.University
	Program      *catalog.Program
	Score        int
	Chance       Chance
	Summary      string
	Simulated    bool
}

// CompositeID returns "<universityId>-<programId>" or "" without a program.
func (r Result) CompositeID() string {
	if r.ProgramID == "" {
		return ""
	}
	return catalog.CompositeID(r.UniversityID, r.ProgramID)
}

// Rank returns a stably sorted copy of results. Ties keep input order.
// Results without a resolved university sort last for rank and ent.
func Rank(results []Result, key SortKey) []Result {
	out := slices.Clone(results)

	switch key {
	case SortByMatch, "":
		slices.SortStableFunc(out, func(a, b Result) int {
			return b.Score - a.Score
		})
	case SortByRank:
		slices.SortStableFunc(out, func(a, b Result) int {
			return compareRefs(a.University, b.University, func(u *catalog.University) float64 {
				return float64(u.NationalRank)
			})
		})
	case SortByENT:
		slices.SortStableFunc(out, func(a, b Result) int {
			return compareRefs(a.University, b.University, func(u *catalog.University) float64 {
				return u.MinENT
			})
		})
	}

	return out
}

func compareRefs(a, b *catalog.University, value func(*catalog.University) float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	va, vb := value(a), value(b)
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	default:
		return 0
	}
}

// Evaluate scores every university for p in input order. Each result carries
// the university's program with the best admission chance.
func (e *Engine) Evaluate(universities []*catalog.University, p profile.Profile) []Result {
	results := make([]Result, 0, len(universities))
	for _, u := range universities {
		if u == nil {
			continue
		}

		r := Result{
			UniversityID: u.ID,
			University:   u,
			Score:        e.Score(u, p),
		}
		if prog, chance := BestProgram(u, &p); prog != nil {
			r.Program = prog
			r.ProgramID = prog.ID
			r.Chance = chance
		}
		results = append(results, r)
	}
	return results
}

// Recommend evaluates and ranks universities for p.
func (e *Engine) Recommend(universities []*catalog.University, p profile.Profile, key SortKey) []Result {
	return Rank(e.Evaluate(universities, p), key)
}

// Simulate ranks universities for a hypothetical profile built from stored and
// overrides. stored is never modified, so running Recommend on it afterwards
// yields the pre-simulation scores.
func (e *Engine) Simulate(universities []*catalog.University, stored profile.Profile, overrides profile.Overrides, key SortKey) []Result {
	results := e.Evaluate(universities, overrides.Apply(stored))
	for i := range results {
		results[i].Simulated = true
	}
	return Rank(results, key)
}
