package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/ai"
	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/profile"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func explainRequest(t *testing.T) ai.Request {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	uni, prog, err := cat.Resolve("nu-nu-cs")
	if err != nil {
		t.Fatalf("resolve program: %v", err)
	}

	return ai.Request{
		University: uni,
		Program:    prog,
		Profile: profile.Profile{
			ENTScore:      120,
			IELTSScore:    7,
			Interests:     []string{"IT"},
			Budget:        3000000,
			PreferredCity: "Астана",
		},
	}
}

func TestExplainerExplain(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"summary": "Сильная программа для вас",
		"score_match": "87.6",
		"interest_match": 100,
		"strong_points": [{"title": "ЕНТ", "detail": "выше минимума"}, "Город совпадает"],
		"risks": []
	}` + "\n```"}
	explainer := NewExplainer(stub, zap.NewNop(), 0)

	req := explainRequest(t)
	exp, err := explainer.Explain(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exp.Summary != "Сильная программа для вас" {
		t.Fatalf("unexpected summary: %q", exp.Summary)
	}
	if exp.ScoreMatch != 88 || exp.InterestMatch != 100 {
		t.Fatalf("unexpected scores: %d/%d", exp.ScoreMatch, exp.InterestMatch)
	}
	if len(exp.StrongPoints) != 2 || exp.StrongPoints[1].Title != "Город совпадает" {
		t.Fatalf("unexpected strong points: %+v", exp.StrongPoints)
	}
	if len(exp.Risks) != 0 {
		t.Fatalf("expected no risks, got %+v", exp.Risks)
	}
	if exp.ProgramID != "nu-nu-cs" || exp.ProgramName != req.Program.Name || exp.UniversityName != req.University.Name {
		t.Fatalf("program identity not filled: %+v", exp)
	}

	if stub.lastSystem == "" {
		t.Fatal("expected system instruction to be sent")
	}
	if strings.Contains(stub.lastPrompt, "{{PROFILE_JSON}}") || strings.Contains(stub.lastPrompt, "{{PROGRAM_JSON}}") {
		t.Fatal("prompt placeholders were not replaced")
	}
	if !strings.Contains(stub.lastPrompt, `"entScore": 120`) {
		t.Fatalf("prompt does not carry the profile: %s", stub.lastPrompt)
	}
}

func TestExplainerPropagatesGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota")}
	explainer := NewExplainer(stub, zap.NewNop(), 0)

	if _, err := explainer.Explain(context.Background(), explainRequest(t)); err == nil {
		t.Fatal("expected generator error")
	}
}

func TestExplainerRejectsResponseWithoutSummary(t *testing.T) {
	stub := &stubGenerator{response: `{"score_match": 50}`}
	explainer := NewExplainer(stub, zap.NewNop(), 0)

	if _, err := explainer.Explain(context.Background(), explainRequest(t)); err == nil {
		t.Fatal("expected error for response without summary")
	}
}

func TestExplainerRejectsInvalidJSON(t *testing.T) {
	stub := &stubGenerator{response: "not json"}
	explainer := NewExplainer(stub, zap.NewNop(), 0)

	if _, err := explainer.Explain(context.Background(), explainRequest(t)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuildPromptReplacesPlaceholders(t *testing.T) {
	prompt := buildPrompt(`{"p":1}`, `{"q":2}`)
	if !strings.Contains(prompt, `{"p":1}`) || !strings.Contains(prompt, `{"q":2}`) {
		t.Fatalf("unexpected prompt: %s", prompt)
	}
}

func TestCoercePercent(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(42.4), 42},
		{"75%", 75},
		{float64(140), 100},
		{float64(-3), 0},
		{"n/a", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := coercePercent(tc.in); got != tc.want {
			t.Fatalf("coercePercent(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
