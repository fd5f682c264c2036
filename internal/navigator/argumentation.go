package navigator

import (
	"context"
	"net/url"
)

// Point is a titled argument for or against a program.
type Point struct {
	Title  string `mapstructure:"title"`
	Detail string `mapstructure:"detail"`
}

// Argumentation explains why a program was recommended.
type Argumentation struct {
	ProgramID      string  `mapstructure:"program_id"`
	ProgramName    string  `mapstructure:"program_name"`
	UniversityName string  `mapstructure:"university_name"`
	ScoreMatch     int     `mapstructure:"score_match"`
	InterestMatch  int     `mapstructure:"interest_match"`
	StrongPoints   []Point `mapstructure:"strong_points"`
	Risks          []Point `mapstructure:"risks"`
}

// Argumentation fetches the explanation for a composite "<university>-<program>" id.
func (c *Client) Argumentation(ctx context.Context, token, compositeID string) (*Argumentation, error) {
	var raw map[string]any
	if err := c.getJSON(ctx, "argumentation/"+url.PathEscape(compositeID), token, nil, &raw); err != nil {
		return nil, err
	}

	var arg Argumentation
	if err := decodeLoose(raw, &arg); err != nil {
		return nil, err
	}
	return &arg, nil
}
