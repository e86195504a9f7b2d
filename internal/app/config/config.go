package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "meeting-recap/internal/app/errors"
	envconfig "meeting-recap/internal/config"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "recap.yaml"

// Config is the pipeline configuration, usually read from recap.yaml.
type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Dates       DatesConfig       `yaml:"dates"`
	Digest      DigestConfig      `yaml:"digest"`
	Ledger      LedgerConfig      `yaml:"ledger"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Publish     PublishConfig     `yaml:"publish"`
	Watch       WatchConfig       `yaml:"watch"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PathsConfig holds the stage directories. Relative paths resolve against Root.
type PathsConfig struct {
	Root           string `yaml:"root"`
	Audio          string `yaml:"audio"`
	Transcriptions string `yaml:"transcriptions" validate:"required"`
	Summaries      string `yaml:"summaries" validate:"required"`
	ActionItems    string `yaml:"action_items" validate:"required"`
	Temp           string `yaml:"temp"`
}

// TranscriberConfig selects and tunes the speech-to-text backend.
type TranscriberConfig struct {
	Provider      string              `yaml:"provider" validate:"oneof=whisper_cpp whisper_server openai"`
	Language      string              `yaml:"language"`
	Prompt        string              `yaml:"prompt"`
	FP16          bool                `yaml:"fp16"`
	WhisperCpp    WhisperCppConfig    `yaml:"whisper_cpp"`
	WhisperServer WhisperServerConfig `yaml:"whisper_server"`
	OpenAI        OpenAIWhisperConfig `yaml:"openai"`
}

type WhisperCppConfig struct {
	Binary  string `yaml:"binary"`
	Model   string `yaml:"model"`
	Threads int    `yaml:"threads" validate:"gte=0"`
}

type WhisperServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type OpenAIWhisperConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GeneratorConfig selects the text generation backend and its prompts.
// Prompts are Go templates receiving {{.Transcript}}; empty keeps the built-in.
type GeneratorConfig struct {
	Provider          string        `yaml:"provider" validate:"oneof=gemini openai anthropic"`
	Model             string        `yaml:"model"`
	BaseURL           string        `yaml:"base_url"`
	MaxTokens         int           `yaml:"max_tokens" validate:"gte=0"`
	Timeout           time.Duration `yaml:"timeout"`
	SummaryPrompt     string        `yaml:"summary_prompt"`
	ActionItemsPrompt string        `yaml:"action_items_prompt"`
}

// DatesConfig controls filename date inference.
type DatesConfig struct {
	// AssumedYear applies to names that carry only month and day. 0 means
	// the current year at process start.
	AssumedYear int `yaml:"assumed_year" validate:"gte=0,lte=9999"`
}

type DigestConfig struct {
	File         string `yaml:"file" validate:"required"`
	Title        string `yaml:"title"`
	WeekHeadings bool   `yaml:"week_headings"`
	Docx         bool   `yaml:"docx"`
	DocxFile     string `yaml:"docx_file"`
}

// LedgerConfig chooses where per-unit outcomes are recorded.
type LedgerConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres none"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver postgres"`
}

type MetricsConfig struct {
	// Textfile is a node_exporter textfile collector path; empty disables.
	Textfile string `yaml:"textfile"`
}

// PublishConfig uploads the digest to an S3-compatible bucket.
type PublishConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint" validate:"required_if=Enabled true"`
	Bucket    string `yaml:"bucket" validate:"required_if=Enabled true"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Audio:          ".",
			Transcriptions: "transcriptions",
			Summaries:      "summaries",
			ActionItems:    "action_items",
		},
		Transcriber: TranscriberConfig{
			Provider: "whisper_cpp",
			Language: "auto",
			WhisperCpp: WhisperCppConfig{
				Binary: "whisper-cli",
				Model:  "models/ggml-base.bin",
			},
			WhisperServer: WhisperServerConfig{
				BaseURL: "http://127.0.0.1:8080",
				Timeout: 30 * time.Minute,
			},
			OpenAI: OpenAIWhisperConfig{
				Model: "whisper-1",
			},
		},
		Generator: GeneratorConfig{
			Provider: "gemini",
			Timeout:  5 * time.Minute,
		},
		Digest: DigestConfig{
			File:         "all_summaries.md",
			Title:        "All Meeting Summaries",
			WeekHeadings: true,
			DocxFile:     "all_summaries.docx",
		},
		Ledger: LedgerConfig{
			Driver: "sqlite",
			Path:   ".recap/ledger.db",
		},
		Publish: PublishConfig{
			Prefix:    "digests/",
			UseSSL:    true,
			AccessKey: "${" + envconfig.EnvMinioAccessKey + "}",
			SecretKey: "${" + envconfig.EnvMinioSecretKey + "}",
		},
		Watch: WatchConfig{
			Debounce: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path over the defaults. An empty path
// tries recap.yaml in the working directory and falls back to Default.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	root := ""
	if path != "" {
		path = os.ExpandEnv(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "parse %s: %v", path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		root = filepath.Dir(abs)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}

	cfg.expandEnvironmentVariables()
	cfg.setDefaults(root)

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "%v", err)
	}

	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(cfg *Config, path string) error {
	path = os.ExpandEnv(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(s string) string {
	return envReference.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envReference.FindStringSubmatch(ref)[1])
	})
}

// expandEnvironmentVariables replaces ${VAR} references in path, endpoint
// and credential fields. Prompts are left untouched.
func (c *Config) expandEnvironmentVariables() {
	fields := []*string{
		&c.Paths.Root,
		&c.Paths.Audio,
		&c.Paths.Transcriptions,
		&c.Paths.Summaries,
		&c.Paths.ActionItems,
		&c.Paths.Temp,
		&c.Transcriber.WhisperCpp.Binary,
		&c.Transcriber.WhisperCpp.Model,
		&c.Transcriber.WhisperServer.BaseURL,
		&c.Transcriber.OpenAI.BaseURL,
		&c.Generator.BaseURL,
		&c.Ledger.Path,
		&c.Ledger.DSN,
		&c.Metrics.Textfile,
		&c.Publish.Endpoint,
		&c.Publish.Bucket,
		&c.Publish.AccessKey,
		&c.Publish.SecretKey,
	}
	for _, f := range fields {
		*f = expandEnv(*f)
	}
}

// DefaultModel is the generator model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-1.5-flash-latest"
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-latest"
	default:
		return ""
	}
}

// setDefaults fills provider-dependent values and resolves relative paths.
func (c *Config) setDefaults(root string) {
	if c.Paths.Root == "" {
		c.Paths.Root = root
	}
	if !filepath.IsAbs(c.Paths.Root) {
		c.Paths.Root = filepath.Join(root, c.Paths.Root)
	}

	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.Paths.Root, *p)
		}
	}
	if c.Paths.Audio == "" {
		c.Paths.Audio = "."
	}
	resolve(&c.Paths.Audio)
	resolve(&c.Paths.Transcriptions)
	resolve(&c.Paths.Summaries)
	resolve(&c.Paths.ActionItems)
	resolve(&c.Paths.Temp)
	if c.Ledger.Driver == "sqlite" {
		resolve(&c.Ledger.Path)
	}
	if c.Transcriber.Provider == "whisper_cpp" {
		resolve(&c.Transcriber.WhisperCpp.Model)
	}

	if c.Generator.Model == "" {
		c.Generator.Model = DefaultModel(c.Generator.Provider)
	}
	if c.Generator.MaxTokens == 0 {
		c.Generator.MaxTokens = 2048
	}
	if c.Transcriber.OpenAI.Model == "" {
		c.Transcriber.OpenAI.Model = "whisper-1"
	}
	if c.Digest.DocxFile == "" {
		c.Digest.DocxFile = "all_summaries.docx"
	}
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = "sqlite"
	}
}

var validate = validator.New()

// Validate runs struct tag validation, then the checks tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if filepath.Base(c.Digest.File) != c.Digest.File {
		return fmt.Errorf("digest file must be a plain file name, got %q", c.Digest.File)
	}

	switch c.Transcriber.Provider {
	case "whisper_server":
		if err := envconfig.ValidateURL(c.Transcriber.WhisperServer.BaseURL, "whisper server"); err != nil {
			return err
		}
		if err := envconfig.ValidateTimeout(c.Transcriber.WhisperServer.Timeout, "whisper server"); err != nil {
			return err
		}
	case "whisper_cpp":
		if c.Transcriber.WhisperCpp.Binary == "" || c.Transcriber.WhisperCpp.Model == "" {
			return fmt.Errorf("whisper_cpp requires binary and model")
		}
	}

	if c.Generator.BaseURL != "" {
		if err := envconfig.ValidateURL(c.Generator.BaseURL, "generator"); err != nil {
			return err
		}
	}
	if err := envconfig.ValidateTimeout(c.Generator.Timeout, "generator"); err != nil {
		return err
	}

	return nil
}

// AssumedYear resolves the configured year, substituting now's year for 0.
func (c *Config) AssumedYear(now time.Time) int {
	if c.Dates.AssumedYear == 0 {
		return now.Year()
	}
	return c.Dates.AssumedYear
}

// DigestPath is the digest Markdown location inside the summaries directory.
func (c *Config) DigestPath() string {
	return filepath.Join(c.Paths.Summaries, c.Digest.File)
}
