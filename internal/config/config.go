package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/scribe/internal/pipeline"
)

// StageConfig holds the settings for one generation stage. Pointer fields
// distinguish "unset" from explicit zero values during merging.
type StageConfig struct {
	// Enabled toggles the stage; nil means the default (enabled)
	Enabled *bool `json:"enabled,omitempty"`

	// Model is the generation model for this stage
	Model string `json:"model,omitempty"`

	// MaxTokens bounds the generated output length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature is the creativity knob; nil means the stage default
	Temperature *float64 `json:"temperature,omitempty"`
}

// Config holds application configuration.
type Config struct {
	// OpenAIAPIKey authenticates generation requests. The OPENAI_API_KEY
	// environment variable takes precedence; see APIKey.
	OpenAIAPIKey string `json:"openai_api_key,omitempty"`

	// OpenAIBaseURL overrides the API root, for OpenAI-compatible
	// gateways. Empty selects the client default.
	OpenAIBaseURL string `json:"openai_base_url,omitempty"`

	// RequestTimeoutSecs bounds one generation request (default 60).
	RequestTimeoutSecs int `json:"request_timeout_secs,omitempty"`

	// KeyPoints, PRD, TRD are the per-stage generation settings.
	KeyPoints StageConfig `json:"key_points,omitempty"`
	PRD       StageConfig `json:"prd,omitempty"`
	TRD       StageConfig `json:"trd,omitempty"`

	// AllowedPaths is an allowlist of directories for export operations.
	// Paths outside ~/.scribe/exports require either being in this list or
	// AllowUnsafePaths=true. Paths should be absolute.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits open database connections. 0 means the sql.DB
	// default. Set to 1 to serialize all database access.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means the sql.DB
	// default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools lists MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes lists type names to disable entirely. All tools
	// belonging to a disabled type are excluded. Known types: "document".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration. Stage defaults mirror
// the pipeline's: short cheap key points, a roomier PRD, the coolest and
// longest TRD.
func DefaultConfig() *Config {
	enabled := true
	kpTemp, prdTemp, trdTemp := 0.3, 0.3, 0.2
	return &Config{
		RequestTimeoutSecs: 60,
		KeyPoints:          StageConfig{Enabled: &enabled, Model: "gpt-4", MaxTokens: 1000, Temperature: &kpTemp},
		PRD:                StageConfig{Enabled: &enabled, Model: "gpt-4", MaxTokens: 2000, Temperature: &prdTemp},
		TRD:                StageConfig{Enabled: &enabled, Model: "gpt-4", MaxTokens: 3000, Temperature: &trdTemp},
	}
}

// APIKey returns the effective API key: environment first, then config.
func (c *Config) APIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return c.OpenAIAPIKey
}

// BaseURL returns the effective API base URL: environment first, then
// config; empty means the client default.
func (c *Config) BaseURL() string {
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		return url
	}
	return c.OpenAIBaseURL
}

// RequestTimeout returns the generation request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// PipelineConfig converts the stage settings into the explicit config the
// pipeline controller is constructed with.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		KeyPoints: stageSettings(c.KeyPoints),
		PRD:       stageSettings(c.PRD),
		TRD:       stageSettings(c.TRD),
	}
}

func stageSettings(sc StageConfig) pipeline.StageSettings {
	s := pipeline.StageSettings{
		Enabled:   true,
		Model:     sc.Model,
		MaxTokens: sc.MaxTokens,
	}
	if sc.Enabled != nil {
		s.Enabled = *sc.Enabled
	}
	if sc.Temperature != nil {
		s.Temperature = *sc.Temperature
	}
	return s
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.scribe.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.scribe) and repo
// (.scribe) directories. Repo config is found by walking upward from
// startDir; repo values take precedence for scalars, arrays are merged.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .scribe/config.json. Returns empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".scribe", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// for scalars and set pointers; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.OpenAIAPIKey = overlayString(base.OpenAIAPIKey, overlay.OpenAIAPIKey)
	result.OpenAIBaseURL = overlayString(base.OpenAIBaseURL, overlay.OpenAIBaseURL)
	result.RequestTimeoutSecs = overlayInt(base.RequestTimeoutSecs, overlay.RequestTimeoutSecs)

	result.KeyPoints = mergeStage(base.KeyPoints, overlay.KeyPoints)
	result.PRD = mergeStage(base.PRD, overlay.PRD)
	result.TRD = mergeStage(base.TRD, overlay.TRD)

	result.DBMaxOpenConns = overlayInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = overlayInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func mergeStage(base, overlay StageConfig) StageConfig {
	result := StageConfig{
		Enabled:     base.Enabled,
		Model:       overlayString(base.Model, overlay.Model),
		MaxTokens:   overlayInt(base.MaxTokens, overlay.MaxTokens),
		Temperature: base.Temperature,
	}
	if overlay.Enabled != nil {
		result.Enabled = overlay.Enabled
	}
	if overlay.Temperature != nil {
		result.Temperature = overlay.Temperature
	}
	return result
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func overlayInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
