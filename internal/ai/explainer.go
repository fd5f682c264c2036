// Package ai explains why a program suits a profile. Explanations come from
// the server, a language model or local rules, tried in that order.
package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/logger"
	"github.com/spigell/uni-navigator/internal/profile"
)

// Point is a titled argument for or against a program.
type Point struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Explanation is the structured rationale for a recommendation.
type Explanation struct {
	ProgramID      string
	ProgramName    string
	UniversityName string
	ScoreMatch     int
	InterestMatch  int
	StrongPoints   []Point
	Risks          []Point
	Summary        string
	// Source names the explainer that produced it.
	Source string
}

// Request identifies what to explain.
type Request struct {
	University *catalog.University
	Program    *catalog.Program
	Profile    profile.Profile
	Token      string
}

// CompositeID returns "<university>-<program>".
func (r Request) CompositeID() string {
	return catalog.CompositeID(r.University.ID, r.Program.ID)
}

func (r Request) validate() error {
	if r.University == nil || r.Program == nil {
		return errors.New("university and program are required")
	}
	return nil
}

type Explainer interface {
	Name() string
	Explain(ctx context.Context, req Request) (*Explanation, error)
}

// Chain tries explainers in order and returns the first success.
type Chain struct {
	explainers []Explainer
	logger     *zap.Logger
}

// NewChain skips nil explainers.
func NewChain(log *zap.Logger, explainers ...Explainer) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Chain{logger: log}
	for _, e := range explainers {
		if e != nil {
			c.explainers = append(c.explainers, e)
		}
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Explain(ctx context.Context, req Request) (*Explanation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	fields := logger.ProgramFields(req.University.ID, req.Program.ID)
	var errs []error
	for _, e := range c.explainers {
		exp, err := e.Explain(ctx, req)
		if err == nil {
			exp.Source = e.Name()
			return exp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		c.logger.Info("explainer unavailable, trying next", append(fields, zap.String("explainer", e.Name()), zap.Error(err))...)
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
	}

	if len(errs) == 0 {
		return nil, errors.New("no explainers configured")
	}
	return nil, errors.Join(errs...)
}
