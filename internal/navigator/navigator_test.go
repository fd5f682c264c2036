package navigator

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/profile"
	"github.com/spigell/uni-navigator/internal/testing/fakeapi"
	"github.com/spigell/uni-navigator/internal/tracker"
)

func newClient(t *testing.T) (*Client, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	return New(zap.NewNop(), Options{BaseURL: srv.BaseURL() + "/"}), srv
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	session, err := client.Register(ctx, "Aida", "aida@example.kz", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "aida@example.kz", session.User.Email)

	_, err = client.Register(ctx, "Aida", "aida@example.kz", "secret")
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = client.Login(ctx, "aida@example.kz", "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)

	session, err = client.Login(ctx, "aida@example.kz", "secret")
	require.NoError(t, err)

	user, err := client.Me(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "Aida", user.Name)

	require.NoError(t, client.Logout(ctx, session.Token))
	_, err = client.Me(ctx, session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid or expired token", apiErr.Detail)

	for _, call := range srv.Calls("GET /auth/me") {
		assert.Equal(t, session.Token, call.Token)
	}
}

func TestUserState(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)
	token := srv.AddAccount(fakeapi.Account{Email: "a@b.kz", Password: "x"})

	_, found, err := client.GetProfile(ctx, token)
	require.NoError(t, err)
	assert.False(t, found)

	p := profile.Profile{ENTScore: 110, IELTSScore: 6.5, Interests: []string{"tech"}, Budget: 1_000_000}
	require.NoError(t, client.PutProfile(ctx, token, p))

	got, found, err := client.GetProfile(ctx, token)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 110.0, got.ENTScore)
	assert.Equal(t, profile.AnyCity, got.PreferredCity)
	assert.Equal(t, []string{}, got.ProfileSubjects)

	favorites, err := client.GetFavorites(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []string{}, favorites)

	require.NoError(t, client.SaveFavorites(ctx, token, []string{"nu", "sdu"}))
	favorites, err = client.GetFavorites(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []string{"nu", "sdu"}, favorites)

	require.NoError(t, client.SaveComparison(ctx, token, []string{"nu-nu-cs"}))
	comparison, err := client.GetComparison(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, []string{"nu-nu-cs"}, comparison)

	apps := []tracker.Application{{ID: "app-1", University: "NU", Program: "CS", AppliedOn: "2025-03-10", Status: tracker.StatusSubmitted}}
	require.NoError(t, client.SaveApplications(ctx, token, apps))
	gotApps, err := client.GetApplications(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, apps, gotApps)
}

func TestGetProfileAcceptsLooseTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"profile":{"entScore":"118","ieltsScore":7,"interests":null,"preferredCity":""}}`))
	}))
	defer srv.Close()

	client := New(nil, Options{BaseURL: srv.URL})
	p, found, err := client.GetProfile(context.Background(), "t")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 118.0, p.ENTScore)
	assert.Equal(t, 7.0, p.IELTSScore)
	assert.Equal(t, []string{}, p.Interests)
	assert.Equal(t, profile.AnyCity, p.PreferredCity)
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)

	var seen map[string]any
	srv.Recommend = func(body map[string]any, simulate bool) []map[string]any {
		seen = body
		return []map[string]any{
			{"university_id": "nu", "program_id": "nu-cs", "score": 87.6, "is_simulation": simulate,
				"explanation": map[string]any{"summary": "Сильный профиль"}},
			{"university_id": "sdu", "program_id": "sdu-cs", "score": "55", "explanation": "Текст"},
		}
	}

	recs, err := client.Recommend(ctx, "", profile.Profile{ENTScore: 120}, 7, true)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "nu", recs[0].UniversityID)
	assert.InDelta(t, 87.6, recs[0].Score, 1e-9)
	assert.True(t, recs[0].Simulated)
	assert.Equal(t, "Сильный профиль", recs[0].Summary)
	assert.Equal(t, 55.0, recs[1].Score)
	assert.Equal(t, "Текст", recs[1].Summary)

	assert.EqualValues(t, 7, seen["top_k"])
	assert.Equal(t, profile.AnyCity, seen["profile"].(map[string]any)["preferredCity"])

	calls := srv.Calls("POST /recommendations")
	require.Len(t, calls, 1)
	assert.Equal(t, "simulate=true", calls[0].Query)
	assert.Empty(t, calls[0].Token)
}

func TestArgumentationAndRoadmap(t *testing.T) {
	ctx := context.Background()
	client, srv := newClient(t)
	token := srv.AddAccount(fakeapi.Account{ID: "u1", Email: "a@b.kz"})

	_, err := client.Argumentation(ctx, token, "nu-nu-cs")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	srv.Argue = func(_ *fakeapi.Account, id string) map[string]any {
		return map[string]any{
			"program_id":     id,
			"program_name":   "Computer Science",
			"score_match":    74,
			"interest_match": 33,
			"strong_points":  []map[string]any{{"title": "Соответствие по ЕНТ", "detail": "ЕНТ 125 ≥ минимум 125"}},
			"risks":          []map[string]any{},
		}
	}
	arg, err := client.Argumentation(ctx, token, "nu-nu-cs")
	require.NoError(t, err)
	assert.Equal(t, "nu-nu-cs", arg.ProgramID)
	assert.Equal(t, 74, arg.ScoreMatch)
	require.Len(t, arg.StrongPoints, 1)
	assert.Equal(t, "Соответствие по ЕНТ", arg.StrongPoints[0].Title)

	items, err := client.GetRoadmap(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = client.CreateRoadmap(ctx, token, RoadmapRequest{UserID: "someone-else", UniversityID: "nu", ProgramID: "nu-cs"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	items, err = client.CreateRoadmap(ctx, token, RoadmapRequest{UserID: "u1", UniversityID: "nu", ProgramID: "nu-cs"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Priority)
	assert.Equal(t, "2026-06-30", items[0].DueDate)
	require.Len(t, items[1].Subtasks, 1)

	var sent map[string]any
	calls := srv.Calls("POST /roadmap")
	require.NoError(t, json.Unmarshal(calls[len(calls)-1].Body, &sent))
	assert.Nil(t, sent["start_date"])
	assert.Equal(t, map[string]any{}, sent["preferences"])
}

func TestGzipAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" || r.Header.Get("X-Request-ID") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("User-Agent") != "tests" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(`{"success":true,"favorites":["kbtu"]}`))
		_ = gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	client := New(nil, Options{BaseURL: srv.URL, UserAgent: "tests"})
	favorites, err := client.GetFavorites(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"kbtu"}, favorites)
}

func TestAPIErrorDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		detail string
		unauth bool
	}{
		{name: "string detail", status: 400, body: `{"detail":"bad id"}`, detail: "bad id"},
		{name: "validation list", status: 422, body: `{"detail":[{"msg":"field required"},{"msg":"not a number"}]}`, detail: "field required; not a number"},
		{name: "message fallback", status: 500, body: `{"message":"boom"}`, detail: "boom"},
		{name: "not json", status: 502, body: `<html>`, detail: ""},
		{name: "unauthorized", status: 401, body: `{"detail":"nope"}`, detail: "nope", unauth: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := &http.Response{StatusCode: tt.status, Status: http.StatusText(tt.status)}
			err := newAPIError(resp, []byte(tt.body))
			if err.Detail != tt.detail {
				t.Fatalf("detail = %q, want %q", err.Detail, tt.detail)
			}
			if errors.Is(err, ErrUnauthorized) != tt.unauth {
				t.Fatalf("errors.Is(ErrUnauthorized) = %v, want %v", !tt.unauth, tt.unauth)
			}
		})
	}
}
