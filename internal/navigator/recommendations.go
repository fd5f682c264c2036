package navigator

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/profile"
)

// Recommendation is one entry of the remote ranking.
type Recommendation struct {
	UniversityID   string  `mapstructure:"university_id"`
	ProgramID      string  `mapstructure:"program_id"`
	UniversityName string  `mapstructure:"university_name"`
	ProgramName    string  `mapstructure:"program_name"`
	Score          float64 `mapstructure:"score"`
	Simulated      bool    `mapstructure:"is_simulation"`
	Summary        string  `mapstructure:"-"`
}

type recommendationRequest struct {
	Profile profile.Profile `json:"profile"`
	TopK    int             `json:"top_k"`
}

// Recommend asks the server to rank programs for p. With simulate set the
// server treats p as a what-if scenario. The token is optional.
func (c *Client) Recommend(ctx context.Context, token string, p profile.Profile, topK int, simulate bool) ([]Recommendation, error) {
	var q url.Values
	if simulate {
		q = url.Values{"simulate": []string{"true"}}
	}

	var resp struct {
		Recommendations []map[string]any `json:"recommendations"`
	}
	payload := recommendationRequest{Profile: p.WithDefaults(), TopK: topK}
	if err := c.doJSON(ctx, http.MethodPost, "recommendations", token, q, payload, &resp); err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(resp.Recommendations))
	for _, raw := range resp.Recommendations {
		var rec Recommendation
		if err := decodeLoose(raw, &rec); err != nil {
			c.logger.Warn("skipping malformed recommendation", zap.Error(err))
			continue
		}
		rec.Summary = summaryOf(raw["explanation"])
		out = append(out, rec)
	}

	return out, nil
}

// The explanation is either plain text or an object carrying a summary.
func summaryOf(explanation any) string {
	switch e := explanation.(type) {
	case string:
		return e
	case map[string]any:
		if s, ok := e["summary"].(string); ok {
			return s
		}
	}
	return ""
}
