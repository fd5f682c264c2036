package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/storage"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.API.BaseURL != navigator.DefaultBaseURL || cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected api config: %+v", cfg.API)
	}
	if cfg.Storage.Driver != storage.DriverFile || !strings.HasSuffix(cfg.Storage.Path, "state.json") {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
	if r := cfg.Recommendations; r.Source != "auto" || r.TopK != 5 || r.SimulateTopK != 20 || !r.Jitter || r.SimulationDelay != 500*time.Millisecond {
		t.Fatalf("unexpected recommendations config: %+v", r)
	}
	if s := cfg.Sync; s.MaxRetries != 3 || s.RetryDelay != 500*time.Millisecond || s.FlushTimeout != 5*time.Second {
		t.Fatalf("unexpected sync config: %+v", s)
	}
	if cfg.AI == nil || cfg.AI.Enabled || cfg.AI.Gemini == nil || cfg.AI.Gemini.MaxLogLength != 200 {
		t.Fatalf("unexpected ai config: %+v", cfg.AI)
	}
}

func TestConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	err := v.ReadConfig(strings.NewReader(`
storage:
  driver: redis
  redis:
    address: localhost:6379
    db: 2
filters:
  min-score: 60
  city-only: true
sync:
  max-retries: 5
`))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.Storage.Driver != "redis" || cfg.Storage.Redis.Address != "localhost:6379" || cfg.Storage.Redis.DB != 2 {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Storage.Redis.Prefix != app+":" {
		t.Fatalf("expected default redis prefix, got %q", cfg.Storage.Redis.Prefix)
	}
	if cfg.Filters.MinScore != 60 || !cfg.Filters.CityOnly {
		t.Fatalf("unexpected filters: %+v", cfg.Filters)
	}
	if cfg.Sync.MaxRetries != 5 {
		t.Fatalf("expected 5 retries, got %d", cfg.Sync.MaxRetries)
	}
}

func TestPrintRoadmapOrdersByDueDate(t *testing.T) {
	var buf bytes.Buffer
	printRoadmap(&buf, []navigator.RoadmapItem{
		{Title: "Подать документы", DueDate: "2026-06-30", Priority: 1},
		{Title: "Без срока"},
		{Title: "Сдать IELTS", DueDate: "2026-02-01", Priority: 2, Subtasks: []navigator.Subtask{{Title: "Пробный тест", DueDate: "2026-01-10"}}},
	})

	out := buf.String()
	ielts := strings.Index(out, "Сдать IELTS")
	docs := strings.Index(out, "Подать документы")
	undated := strings.Index(out, "Без срока")
	if ielts < 0 || docs < 0 || undated < 0 {
		t.Fatalf("missing items in output:\n%s", out)
	}
	if !(ielts < docs && docs < undated) {
		t.Fatalf("items are not ordered by due date:\n%s", out)
	}
	if !strings.Contains(out, "Пробный тест") {
		t.Fatalf("subtasks are not printed:\n%s", out)
	}
}

func TestDateFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("deadline", "", "")

	got, err := dateFlag(cmd, "deadline", "")
	if err != nil || got != nil {
		t.Fatalf("expected nil date, got %v, %v", got, err)
	}

	got, err = dateFlag(cmd, "deadline", "2026-07-15")
	if err != nil || got == nil || *got != "2026-07-15" {
		t.Fatalf("expected fallback date, got %v, %v", got, err)
	}

	if err := cmd.Flags().Set("deadline", "15.07.2026"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if _, err := dateFlag(cmd, "deadline", ""); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestValidateRange(t *testing.T) {
	ent := validateRange(50, 140, false)
	for input, ok := range map[string]bool{"100": true, "50": true, "140": true, "49": false, "141": false, "": false, "abc": false} {
		if err := ent(input); (err == nil) != ok {
			t.Fatalf("ent(%q) error = %v, want ok=%t", input, err, ok)
		}
	}

	budget := validateRange(0, -1, true)
	for input, ok := range map[string]bool{"": true, "2 500 000": true, "1,5": true, "-1": false} {
		if err := budget(input); (err == nil) != ok {
			t.Fatalf("budget(%q) error = %v, want ok=%t", input, err, ok)
		}
	}
}
