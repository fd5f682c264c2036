package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/ai"
	"github.com/spigell/uni-navigator/internal/ai/gemini"
	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/logger"
	"github.com/spigell/uni-navigator/internal/match"
	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/profile"
	"github.com/spigell/uni-navigator/internal/recommend"
	"github.com/spigell/uni-navigator/internal/secrets"
	"github.com/spigell/uni-navigator/internal/storage"
	"github.com/spigell/uni-navigator/internal/store"
	"github.com/spigell/uni-navigator/internal/syncqueue"
)

// deps is everything a command needs. It is built once per invocation.
type deps struct {
	config  *Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	engine  *match.Engine
	client  *navigator.Client
	store   *store.Store
	out     io.Writer

	kvCloser io.Closer
}

type runFunc func(ctx context.Context, d *deps, cmd *cobra.Command, args []string) error

// withDeps wires the application, restores the session and flushes pending
// sync work once fn returns.
func withDeps(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		d, err := newDeps(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer d.close()

		return fn(ctx, d, cmd, args)
	}
}

func newDeps(ctx context.Context, out io.Writer) (*deps, error) {
	logger, err := logger.New(app, viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	logger.Debug("starting", zap.String("version", version), zap.String("api", config.API.BaseURL), zap.String("storage", config.Storage.Driver))

	cat, err := loadCatalog(config.Catalog)
	if err != nil {
		return nil, err
	}

	kv, closer, err := storage.Open(ctx, config.Storage, logger)
	if err != nil {
		return nil, err
	}

	client := navigator.New(logger, config.API)
	queues := syncqueue.NewGroup(config.Sync.Options, logger)
	st := store.New(kv, client, queues, logger)

	if _, err := st.Restore(ctx); err != nil {
		st.Close()
		_ = closer.Close()
		return nil, fmt.Errorf("restoring local state: %w", err)
	}

	var engineOpts []match.Option
	if !config.Recommendations.Jitter {
		engineOpts = append(engineOpts, match.WithJitter(match.NoJitter))
	}

	return &deps{
		config:   config,
		logger:   logger,
		catalog:  cat,
		engine:   match.NewEngine(engineOpts...),
		client:   client,
		store:    st,
		out:      out,
		kvCloser: closer,
	}, nil
}

func loadCatalog(cfg CatalogConfig) (*catalog.Catalog, error) {
	if strings.TrimSpace(cfg.File) == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(cfg.File)
}

// close pushes pending changes within sync.flush-timeout and releases storage.
func (d *deps) close() {
	ctx := context.Background()
	if timeout := d.config.Sync.FlushTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := d.store.Flush(ctx); err != nil {
		d.logger.Warn("pending changes were not pushed to the server", zap.Error(err))
	}
	d.store.Close()

	if err := d.kvCloser.Close(); err != nil {
		d.logger.Warn("closing local storage", zap.Error(err))
	}
	_ = d.logger.Sync()
}

func (d *deps) resolver(topK int) (*recommend.Resolver, error) {
	mode, err := recommend.ParseMode(d.config.Recommendations.Source)
	if err != nil {
		return nil, err
	}
	return recommend.NewResolver(d.catalog, d.engine, d.client, recommend.Options{Mode: mode, TopK: topK}, d.logger), nil
}

// explainer chains the server argumentation, the optional language model and
// the local rules.
func (d *deps) explainer(ctx context.Context) *ai.Chain {
	explainers := []ai.Explainer{ai.Remote{Client: d.client}}

	if gen, err := newGeminiExplainer(ctx, d.config.AI, d.logger); err != nil {
		d.logger.Warn("skipping AI explainer", zap.Error(err))
	} else if gen != nil {
		explainers = append(explainers, gen)
	}

	explainers = append(explainers, ai.Rules{})
	return ai.NewChain(d.logger, explainers...)
}

func newGeminiExplainer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Explainer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(logger.WithCommonFields(log, "gemini", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExplainer(generator, logger.WithCommonFields(log, "gemini", generator.Model()), cfg.Gemini.MaxLogLength), nil
}

// requireProfile returns the stored profile or a hint to run the quiz.
func requireProfile(snap store.Snapshot) (profile.Profile, error) {
	if snap.Profile == nil {
		return profile.Profile{}, fmt.Errorf("no profile yet, run `%s quiz` first", app)
	}
	return snap.Profile.Clone(), nil
}
