package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/uni-navigator/internal/filtering"
	"github.com/spigell/uni-navigator/internal/navigator"
	"github.com/spigell/uni-navigator/internal/storage"
	"github.com/spigell/uni-navigator/internal/syncqueue"
)

const (
	app       = "uni-navigator"
	envPrefix = "UNI_NAVIGATOR"
)

type Config struct {
	API             navigator.Options      `mapstructure:"api"`
	Storage         storage.Options        `mapstructure:"storage"`
	Catalog         CatalogConfig          `mapstructure:"catalog"`
	Recommendations *RecommendationsConfig `mapstructure:"recommendations"`
	Filters         filtering.Config       `mapstructure:"filters"`
	Sync            *SyncConfig            `mapstructure:"sync"`
	AI              *AIConfig              `mapstructure:"ai"`
}

type CatalogConfig struct {
	File string `mapstructure:"file"`
}

type RecommendationsConfig struct {
	Source          string        `mapstructure:"source"`
	TopK            int           `mapstructure:"top-k"`
	SimulateTopK    int           `mapstructure:"simulate-top-k"`
	Sort            string        `mapstructure:"sort"`
	Jitter          bool          `mapstructure:"jitter"`
	SimulationDelay time.Duration `mapstructure:"simulation-delay"`
}

type SyncConfig struct {
	syncqueue.Options `mapstructure:",squash"`
	FlushTimeout      time.Duration `mapstructure:"flush-timeout"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "uni-navigator helps school graduates pick a university program in Kazakhstan",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is uni-navigator.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "navigator API base url")
	rootCmd.PersistentFlags().String("storage", "", "local state driver: file, redis or memory")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api.base-url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("storage.driver", rootCmd.PersistentFlags().Lookup("storage"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base-url", navigator.DefaultBaseURL)
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.user-agent", navigator.DefaultUserAgent)

	v.SetDefault("storage.driver", storage.DriverFile)
	v.SetDefault("storage.path", defaultStatePath())
	v.SetDefault("storage.redis.address", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", app+":")

	v.SetDefault("catalog.file", "")

	v.SetDefault("recommendations.source", "auto")
	v.SetDefault("recommendations.top-k", 5)
	v.SetDefault("recommendations.simulate-top-k", 20)
	v.SetDefault("recommendations.sort", "match")
	v.SetDefault("recommendations.jitter", true)
	v.SetDefault("recommendations.simulation-delay", 500*time.Millisecond)

	v.SetDefault("filters.min-score", 0)
	v.SetDefault("filters.city-only", false)
	v.SetDefault("filters.affordable-only", false)
	v.SetDefault("filters.hide-low-chance", false)
	v.SetDefault("filters.favorites-only", false)

	v.SetDefault("sync.max-retries", 3)
	v.SetDefault("sync.retry-delay", 500*time.Millisecond)
	v.SetDefault("sync.flush-timeout", 5*time.Second)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("."+app, "state.json")
	}
	return filepath.Join(home, "."+app, "state.json")
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The default config file is optional; an explicit one is not.
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}
	if config.Recommendations == nil {
		config.Recommendations = &RecommendationsConfig{}
	}
	if config.Sync == nil {
		config.Sync = &SyncConfig{}
	}
	return config, nil
}
