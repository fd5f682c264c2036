package navigator

import (
	"context"
	"net/http"
)

// Subtask is a dated step of a roadmap item.
type Subtask struct {
	Title   string `mapstructure:"title"`
	DueDate string `mapstructure:"due_date"`
}

// RoadmapItem is a task on the admission roadmap. Dates are YYYY-MM-DD.
type RoadmapItem struct {
	ID               string    `mapstructure:"id"`
	Title            string    `mapstructure:"title"`
	Description      string    `mapstructure:"description"`
	DueDate          string    `mapstructure:"due_date"`
	Priority         int       `mapstructure:"priority"`
	NotifyBeforeDays int       `mapstructure:"notify_before_days"`
	Subtasks         []Subtask `mapstructure:"subtasks"`
}

// RoadmapRequest asks the server to generate a roadmap for one program.
type RoadmapRequest struct {
	UserID       string         `json:"user_id"`
	UniversityID string         `json:"university_id"`
	ProgramID    string         `json:"program_id"`
	StartDate    *string        `json:"start_date"`
	Deadline     *string        `json:"deadline"`
	Preferences  map[string]any `json:"preferences"`
}

type roadmapResponse struct {
	Success bool  `json:"success"`
	Roadmap []any `json:"roadmap"`
}

func (c *Client) GetRoadmap(ctx context.Context, token string) ([]RoadmapItem, error) {
	var resp roadmapResponse
	if err := c.getJSON(ctx, "roadmap", token, nil, &resp); err != nil {
		return nil, err
	}
	return decodeRoadmap(resp.Roadmap)
}

func (c *Client) CreateRoadmap(ctx context.Context, token string, req RoadmapRequest) ([]RoadmapItem, error) {
	if req.Preferences == nil {
		req.Preferences = map[string]any{}
	}

	var resp roadmapResponse
	if err := c.sendJSON(ctx, http.MethodPost, "roadmap", token, req, &resp); err != nil {
		return nil, err
	}
	return decodeRoadmap(resp.Roadmap)
}

func decodeRoadmap(raw []any) ([]RoadmapItem, error) {
	items := make([]RoadmapItem, 0, len(raw))
	if err := decodeLoose(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
