package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/ai"
	"github.com/spigell/uni-navigator/internal/logger"
	"github.com/spigell/uni-navigator/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Explainer asks a language model for the program rationale.
type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	systemInstruction   = "You are a university admissions advisor. Reply with JSON only."
)

func NewExplainer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Explainer) Name() string { return "gemini" }

func (e *Explainer) Explain(ctx context.Context, req ai.Request) (*ai.Explanation, error) {
	if req.University == nil || req.Program == nil {
		return nil, errors.New("university and program are required")
	}
	if e.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}

	profileJSON, err := json.MarshalIndent(req.Profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	programJSON, err := json.MarshalIndent(map[string]any{
		"university": map[string]any{
			"id":           req.University.ID,
			"name":         req.University.Name,
			"city":         req.University.City,
			"nationalRank": req.University.NationalRank,
			"scholarships": req.University.Scholarships,
		},
		"program": req.Program,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal program payload: %w", err)
	}

	prompt := buildPrompt(string(profileJSON), string(programJSON))

	fields := append(logger.ProgramFields(req.University.ID, req.Program.ID), logger.CommonFields(e.Name(), e.generator.Model())...)
	e.logger.Debug("gemini generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)...)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)...)

	exp, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	exp.ProgramID = req.CompositeID()
	exp.ProgramName = req.Program.Name
	exp.UniversityName = req.University.Name
	return exp, nil
}

func buildPrompt(profileJSON, programJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE_JSON}}\n\nProgram:\n{{PROGRAM_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{PROGRAM_JSON}}", programJSON)
	return prompt
}

func parseResponse(raw string) (*ai.Explanation, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		return nil, errors.New("gemini response has no summary")
	}

	return &ai.Explanation{
		Summary:       summary,
		ScoreMatch:    coercePercent(data["score_match"]),
		InterestMatch: coercePercent(data["interest_match"]),
		StrongPoints:  coercePoints(data["strong_points"]),
		Risks:         coercePoints(data["risks"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coercePercent(v any) int {
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coercePoints accepts a list of {title, detail} objects or plain strings.
func coercePoints(v any) []ai.Point {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	var out []ai.Point
	for _, item := range items {
		switch val := item.(type) {
		case map[string]any:
			p := ai.Point{Title: coerceString(val["title"]), Detail: coerceString(val["detail"])}
			if p.Title != "" || p.Detail != "" {
				out = append(out, p)
			}
		case string:
			if s := strings.TrimSpace(val); s != "" {
				out = append(out, ai.Point{Title: s})
			}
		}
	}
	return out
}
