package navigator

import (
	"context"
	"net/http"

	"github.com/spigell/uni-navigator/internal/profile"
	"github.com/spigell/uni-navigator/internal/tracker"
)

// GetProfile returns the server-side profile. The boolean is false when the
// user has none. Missing fields are defaulted.
func (c *Client) GetProfile(ctx context.Context, token string) (profile.Profile, bool, error) {
	var resp struct {
		Success bool           `json:"success"`
		Profile map[string]any `json:"profile"`
	}
	if err := c.getJSON(ctx, "user/profile", token, nil, &resp); err != nil {
		return profile.Profile{}, false, err
	}
	if !resp.Success || len(resp.Profile) == 0 {
		return profile.Profile{}, false, nil
	}

	var p profile.Profile
	if err := decodeLoose(resp.Profile, &p); err != nil {
		return profile.Profile{}, false, err
	}
	return p.WithDefaults(), true, nil
}

func (c *Client) PutProfile(ctx context.Context, token string, p profile.Profile) error {
	return c.sendJSON(ctx, http.MethodPut, "user/profile", token, p.WithDefaults(), nil)
}

func (c *Client) GetFavorites(ctx context.Context, token string) ([]string, error) {
	var resp struct {
		Success   bool     `json:"success"`
		Favorites []string `json:"favorites"`
	}
	if err := c.getJSON(ctx, "user/favorites", token, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Favorites), nil
}

func (c *Client) SaveFavorites(ctx context.Context, token string, ids []string) error {
	payload := map[string][]string{"favorites": nonNil(ids)}
	return c.sendJSON(ctx, http.MethodPost, "user/favorites", token, payload, nil)
}

func (c *Client) GetComparison(ctx context.Context, token string) ([]string, error) {
	var resp struct {
		Success        bool     `json:"success"`
		ComparisonList []string `json:"comparison_list"`
	}
	if err := c.getJSON(ctx, "user/comparison", token, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.ComparisonList), nil
}

func (c *Client) SaveComparison(ctx context.Context, token string, ids []string) error {
	payload := map[string][]string{"comparison_list": nonNil(ids)}
	return c.sendJSON(ctx, http.MethodPost, "user/comparison", token, payload, nil)
}

func (c *Client) GetApplications(ctx context.Context, token string) ([]tracker.Application, error) {
	var resp struct {
		Success      bool                  `json:"success"`
		Applications []tracker.Application `json:"applications"`
	}
	if err := c.getJSON(ctx, "user/applications", token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Applications == nil {
		return []tracker.Application{}, nil
	}
	return resp.Applications, nil
}

func (c *Client) SaveApplications(ctx context.Context, token string, apps []tracker.Application) error {
	if apps == nil {
		apps = []tracker.Application{}
	}
	payload := map[string][]tracker.Application{"applications": apps}
	return c.sendJSON(ctx, http.MethodPost, "user/applications", token, payload, nil)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
