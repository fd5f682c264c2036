package ai

import (
	"context"
	"errors"

	"github.com/spigell/uni-navigator/internal/navigator"
)

// ArgumentationClient fetches server-side argumentation.
type ArgumentationClient interface {
	Argumentation(ctx context.Context, token, compositeID string) (*navigator.Argumentation, error)
}

// Remote explains programs using the server argumentation endpoint. It needs
// an authenticated token.
type Remote struct {
	Client ArgumentationClient
}

func (Remote) Name() string { return "remote" }

func (r Remote) Explain(ctx context.Context, req Request) (*Explanation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Token == "" {
		return nil, errors.New("login required for server argumentation")
	}

	arg, err := r.Client.Argumentation(ctx, req.Token, req.CompositeID())
	if err != nil {
		return nil, err
	}

	exp := &Explanation{
		ProgramID:      arg.ProgramID,
		ProgramName:    arg.ProgramName,
		UniversityName: arg.UniversityName,
		ScoreMatch:     arg.ScoreMatch,
		InterestMatch:  arg.InterestMatch,
		StrongPoints:   points(arg.StrongPoints),
		Risks:          points(arg.Risks),
	}
	if exp.ProgramName == "" {
		exp.ProgramName = req.Program.Name
	}
	if exp.UniversityName == "" {
		exp.UniversityName = req.University.Name
	}
	return exp, nil
}

func points(in []navigator.Point) []Point {
	out := make([]Point, 0, len(in))
	for _, p := range in {
		out = append(out, Point{Title: p.Title, Detail: p.Detail})
	}
	return out
}
