package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "FAKENEWS_CONFIG"
	dotenvPathEnv   = "FAKENEWS_DOTENV"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOG"`
	HTTP      HTTPConfig      `yaml:"http" envconfig:"HTTP"`
	Model     ModelConfig     `yaml:"model" envconfig:"MODEL"`
	Corpus    CorpusConfig    `yaml:"corpus" envconfig:"CORPUS"`
	Training  TrainingConfig  `yaml:"training" envconfig:"TRAINING"`
	Inference InferenceConfig `yaml:"inference" envconfig:"INFERENCE"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Redis     RedisConfig     `yaml:"redis" envconfig:"REDIS"`
	FactCheck FactCheckConfig `yaml:"factCheck" envconfig:"FACTCHECK"`
	Scheduler SchedulerConfig `yaml:"scheduler" envconfig:"SCHEDULER"`
	Telegram  TelegramConfig  `yaml:"telegram" envconfig:"TELEGRAM"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR"`
	ReadTimeout     time.Duration `yaml:"readTimeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `yaml:"allowedOrigins" envconfig:"ALLOWED_ORIGINS"`
	// RateLimit is predict requests per second per client IP; zero disables limiting.
	RateLimit float64 `yaml:"rateLimit" envconfig:"RATE_LIMIT"`
	RateBurst int     `yaml:"rateBurst" envconfig:"RATE_BURST"`
}

// ModelConfig controls artifact storage and startup behavior.
type ModelConfig struct {
	ArtifactDir    string `yaml:"artifactDir" envconfig:"ARTIFACT_DIR"`
	TrainOnStartup bool   `yaml:"trainOnStartup" envconfig:"TRAIN_ON_STARTUP"`
}

// CorpusConfig selects the training corpus.
type CorpusConfig struct {
	// Source is a registered loader name: "csv" or "postgres".
	Source     string `yaml:"source" envconfig:"SOURCE"`
	FakePath   string `yaml:"fakePath" envconfig:"FAKE_PATH"`
	TruePath   string `yaml:"truePath" envconfig:"TRUE_PATH"`
	SampleSize int    `yaml:"sampleSize" envconfig:"SAMPLE_SIZE"`
}

// TrainingConfig carries the split and model hyperparameters. Nested model
// settings are file-only.
type TrainingConfig struct {
	TestFraction float64                 `yaml:"testFraction" envconfig:"TEST_FRACTION"`
	MinPerClass  int                     `yaml:"minPerClass" envconfig:"MIN_PER_CLASS"`
	Seed         int64                   `yaml:"seed" envconfig:"SEED"`
	Vectorizer   features.Config         `yaml:"vectorizer" ignored:"true"`
	Tree         classifier.TreeConfig   `yaml:"decisionTree" ignored:"true"`
	Forest       classifier.ForestConfig `yaml:"randomForest" ignored:"true"`
}

// InferenceConfig bounds prediction work and weights the heuristics.
type InferenceConfig struct {
	TopK              int           `yaml:"topK" envconfig:"TOP_K"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxConcurrent     int64         `yaml:"maxConcurrent" envconfig:"MAX_CONCURRENT"`
	CredibilityWeight float64       `yaml:"credibilityWeight" envconfig:"CREDIBILITY_WEIGHT"`
	PatternWeight     float64       `yaml:"patternWeight" envconfig:"PATTERN_WEIGHT"`
	MaxShift          float64       `yaml:"maxShift" envconfig:"MAX_SHIFT"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN disables
// prediction history and the postgres corpus.
type DatabaseConfig struct {
	DSN     string `yaml:"dsn" envconfig:"DSN"`
	Migrate bool   `yaml:"migrate" envconfig:"MIGRATE"`
}

// RedisConfig enables the prediction cache when URL is set.
type RedisConfig struct {
	URL string        `yaml:"url" envconfig:"URL"`
	TTL time.Duration `yaml:"ttl" envconfig:"TTL"`
}

// FactCheckConfig enables the remote fact-check lookup when APIKey is set.
type FactCheckConfig struct {
	APIKey   string `yaml:"apiKey" envconfig:"API_KEY"`
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`
	Language string `yaml:"language" envconfig:"LANGUAGE"`
}

// SchedulerConfig defines when periodic retraining runs. Empty disables it.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression" envconfig:"CRON"`
	Timezone       string         `yaml:"timezone" envconfig:"TIMEZONE"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// TelegramConfig wires all data required to send training reports.
type TelegramConfig struct {
	BotToken string `yaml:"botToken" envconfig:"BOT_TOKEN"`
	ChatID   string `yaml:"chatId" envconfig:"CHAT_ID"`
}

// Load applies defaults, the optional YAML file named by FAKENEWS_CONFIG, an
// optional .env file and finally environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfig, path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfig, path, err)
		}
	}

	dotenv := os.Getenv(dotenvPathEnv)
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: cannot load %s: %v", dotenv, err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: environment: %v", domain.ErrConfig, err)
	}

	cfg.bindTimezone()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("%w: http.addr is empty", domain.ErrConfig)
	}
	if c.Model.ArtifactDir == "" {
		return fmt.Errorf("%w: model.artifactDir is empty", domain.ErrConfig)
	}
	switch c.Corpus.Source {
	case "", "csv", "postgres":
	default:
		return fmt.Errorf("%w: unknown corpus source %q", domain.ErrConfig, c.Corpus.Source)
	}
	if c.Corpus.Source == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("%w: postgres corpus requires database.dsn", domain.ErrConfig)
	}
	if c.Corpus.SampleSize < 0 {
		return fmt.Errorf("%w: corpus.sampleSize must not be negative", domain.ErrConfig)
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return fmt.Errorf("%w: rate limit settings must not be negative", domain.ErrConfig)
	}
	if err := c.Training.Vectorizer.Validate(); err != nil {
		return err
	}
	if err := c.Training.Tree.Validate(); err != nil {
		return err
	}
	if err := c.Training.Forest.Tree.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			RateLimit:       20,
			RateBurst:       40,
		},
		Model: ModelConfig{ArtifactDir: "artifacts", TrainOnStartup: true},
		Corpus: CorpusConfig{
			Source:     "csv",
			FakePath:   "data/Fake.csv",
			TruePath:   "data/True.csv",
			SampleSize: 10000,
		},
		Training: TrainingConfig{
			TestFraction: 0.2,
			MinPerClass:  5,
			Seed:         42,
			Vectorizer:   features.DefaultConfig(),
			Tree:         classifier.DefaultTreeConfig(),
			Forest:       classifier.DefaultForestConfig(),
		},
		Inference: InferenceConfig{
			TopK:              10,
			Timeout:           10 * time.Second,
			MaxConcurrent:     32,
			CredibilityWeight: 0.2,
			PatternWeight:     0.25,
			MaxShift:          0.35,
		},
		Redis:     RedisConfig{TTL: 10 * time.Minute},
		FactCheck: FactCheckConfig{Language: "en"},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
