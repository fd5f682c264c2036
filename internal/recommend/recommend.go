// Package recommend resolves the ranked recommendation list for a profile,
// preferring the remote scorer and falling back to the local match engine.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/logger"
	"github.com/spigell/uni-navigator/internal/match"
	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/profile"
)

// Mode selects where recommendations come from.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Source reports which scorer produced a result set.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

var ErrUnknownMode = errors.New("unknown recommendation source")

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeRemote, ModeLocal:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (expected auto, remote or local)", ErrUnknownMode, s)
	}
}

// Remote is the remote recommendation scorer.
type Remote interface {
	Recommend(ctx context.Context, token string, p profile.Profile, topK int, simulate bool) ([]navigator.Recommendation, error)
}

// Options tune a Resolver.
type Options struct {
	Mode Mode
	// TopK bounds the result count. Zero or less keeps everything.
	TopK int
}

// Resolver produces ranked results for a profile.
type Resolver struct {
	opts    Options
	remote  Remote
	catalog *catalog.Catalog
	engine  *match.Engine
	logger  *zap.Logger
}

// NewResolver builds a resolver. remote may be nil, in which case only the
// local engine is used regardless of mode.
func NewResolver(cat *catalog.Catalog, engine *match.Engine, remote Remote, opts Options, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	return &Resolver{opts: opts, remote: remote, catalog: cat, engine: engine, logger: log}
}

// Request describes one resolution.
type Request struct {
	Token   string
	Profile profile.Profile
	// Overrides turn the request into a simulation over Profile.
	Overrides *profile.Overrides
	Sort      match.SortKey
}

func (r Request) simulate() bool { return r.Overrides != nil }

func (r Request) effectiveProfile() profile.Profile {
	if r.Overrides == nil {
		return r.Profile.Clone()
	}
	return r.Overrides.Apply(r.Profile)
}

// Resolve returns ranked results and the source that produced them. In auto
// mode a failing or empty remote answer falls back to the local engine.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]match.Result, Source, error) {
	mode := r.opts.Mode
	if r.remote == nil && mode != ModeRemote {
		mode = ModeLocal
	}

	switch mode {
	case ModeLocal:
		return r.local(req), SourceLocal, nil
	case ModeRemote:
		if r.remote == nil {
			return nil, SourceRemote, errors.New("remote recommendations are not configured")
		}
		results, err := r.fetchRemote(ctx, req)
		if err != nil {
			return nil, SourceRemote, err
		}
		return results, SourceRemote, nil
	default:
		results, err := r.fetchRemote(ctx, req)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, SourceRemote, ctx.Err()
			}
			r.logger.Warn("remote recommendations failed, using local engine", zap.Error(err))
		case len(results) == 0:
			r.logger.Info("remote returned no recommendations, using local engine")
		default:
			return results, SourceRemote, nil
		}
		return r.local(req), SourceLocal, nil
	}
}

// local keeps the TopK best matches and only then applies the requested
// order, the same selection the remote scorer makes with top_k.
func (r *Resolver) local(req Request) []match.Result {
	var results []match.Result
	if req.simulate() {
		results = r.engine.Simulate(r.catalog.Universities(), req.Profile, *req.Overrides, match.SortByMatch)
	} else {
		results = r.engine.Recommend(r.catalog.Universities(), req.Profile, match.SortByMatch)
	}
	return match.Rank(r.limit(results), req.Sort)
}

func (r *Resolver) fetchRemote(ctx context.Context, req Request) ([]match.Result, error) {
	p := req.effectiveProfile()
	recs, err := r.remote.Recommend(ctx, req.Token, p, r.opts.TopK, req.simulate())
	if err != nil {
		return nil, err
	}

	results := make([]match.Result, 0, len(recs))
	for _, rec := range recs {
		u, prog, err := r.catalog.Program(rec.UniversityID, rec.ProgramID)
		if err != nil {
			r.logger.Debug("dropping recommendation missing from catalog",
				append(logger.ProgramFields(rec.UniversityID, rec.ProgramID), zap.Error(err))...)
			continue
		}

		results = append(results, match.Result{
			UniversityID: u.ID,
			ProgramID:    prog.ID,
			University:   u,
			Program:      prog,
			Score:        clampScore(rec.Score),
			Chance:       match.ChanceFor(prog, &p),
			Summary:      rec.Summary,
			Simulated:    rec.Simulated || req.simulate(),
		})
	}

	return r.limit(match.Rank(results, req.Sort)), nil
}

func (r *Resolver) limit(results []match.Result) []match.Result {
	if r.opts.TopK > 0 && len(results) > r.opts.TopK {
		return results[:r.opts.TopK]
	}
	return results
}

func clampScore(score float64) int {
	return int(math.Max(0, math.Min(100, math.Round(score))))
}
