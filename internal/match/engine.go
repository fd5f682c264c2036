// Package match scores universities against an applicant profile.
//
// The scoring formula is a weighted sum over four factors (ENT, IELTS,
// budget and city) normalized to 0..100. A bounded random jitter term is
// added before normalization; it is injectable so callers can make scores
// deterministic.
package match

import (
	"math"
	"math/rand/v2"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/profile"
)

const (
	// MaxJitter is the exclusive upper bound of the jitter term in score points.
	MaxJitter = 5.0

	entBase        = 40.0
	entMaxBonus    = 30.0
	entBonusRate   = 1.5
	entPenaltyRate = 2.0
	entWeight      = entBase + entMaxBonus

	ieltsWeight      = 20.0
	ieltsPenaltyRate = 10.0

	budgetWeight  = 20.0
	budgetPartial = 10.0

	cityWeight = 10.0
)

// Jitter returns a value in [0, 1).
type Jitter func() float64

// NoJitter makes scoring deterministic.
func NoJitter() float64 { return 0 }

// Engine computes match scores. The zero value is not usable; use NewEngine.
type Engine struct {
	jitter Jitter
}

type Option func(*Engine)

// WithJitter replaces the randomness source. A nil source disables jitter.
func WithJitter(j Jitter) Option {
	return func(e *Engine) {
		if j == nil {
			j = NoJitter
		}
		e.jitter = j
	}
}

// WithSeed uses a seeded PCG source so scores are reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		r := rand.New(rand.NewPCG(seed, seed))
		e.jitter = r.Float64
	}
}

// NewEngine returns an engine using real entropy for jitter unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{jitter: rand.Float64}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Factor is a single scoring component.
type Factor struct {
	Name   string
	Points float64
	Max    float64
	Met    bool
}

// Breakdown is the jitter-free factor decomposition of a score.
type Breakdown struct {
	Factors []Factor
	Points  float64
	Max     float64
}

// Percent normalizes points plus the given jitter to an integer in [0, 100].
func (b Breakdown) Percent(jitter float64) int {
	if b.Max <= 0 {
		return 0
	}
	v := math.Round((b.Points + jitter) / b.Max * 100)
	return int(math.Max(0, math.Min(100, v)))
}

// BreakdownFor computes the factor contributions for u and p.
func BreakdownFor(u *catalog.University, p profile.Profile) Breakdown {
	factors := []Factor{
		entFactor(u.MinENT, p.ENTScore),
		ieltsFactor(u.MinIELTS, p.IELTSScore),
		budgetFactor(u.TuitionRange, p.Budget),
		cityFactor(u.City, p),
	}

	var b Breakdown
	b.Factors = factors
	for _, f := range factors {
		b.Points += f.Points
		b.Max += f.Max
	}
	return b
}

// Score returns the match score of u for p in [0, 100].
func (e *Engine) Score(u *catalog.University, p profile.Profile) int {
	return BreakdownFor(u, p).Percent(e.jitter() * MaxJitter)
}

func entFactor(minENT, ent float64) Factor {
	f := Factor{Name: "ent", Max: entWeight}
	if ent >= minENT {
		f.Met = true
		f.Points = entBase + math.Min(entMaxBonus, (ent-minENT)*entBonusRate)
		return f
	}
	f.Points = math.Max(0, entBase-(minENT-ent)*entPenaltyRate)
	return f
}

// A zero minIELTS means no requirement, which any score satisfies.
func ieltsFactor(minIELTS, ielts float64) Factor {
	f := Factor{Name: "ielts", Max: ieltsWeight}
	if ielts >= minIELTS {
		f.Met = true
		f.Points = ieltsWeight
		return f
	}
	f.Points = math.Max(0, ieltsWeight-(minIELTS-ielts)*ieltsPenaltyRate)
	return f
}

func budgetFactor(tuition catalog.TuitionRange, budget float64) Factor {
	f := Factor{Name: "budget", Max: budgetWeight}
	if tuition.FullyFunded() || budget >= tuition.Min {
		f.Met = true
		f.Points = budgetWeight
		return f
	}
	f.Points = budgetPartial
	return f
}

func cityFactor(city string, p profile.Profile) Factor {
	f := Factor{Name: "city", Max: cityWeight}
	if p.AcceptsCity(city) {
		f.Met = true
		f.Points = cityWeight
	}
	return f
}
