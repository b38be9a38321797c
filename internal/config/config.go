// Package config provides configuration loading and validation for the pipeline.
//
// Configuration is assembled once at startup (file values overlaid with
// environment variables) and validated before any pipeline construction, so
// a missing API key surfaces as a typed error instead of a failure deep
// inside a stage.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config holds all settings consumed by the pipeline, store, and surfaces.
// All fields are optional in the file; missing values use defaults or come
// from the environment.
type Config struct {
	// Collaborator credentials
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	SerperAPIKey string `json:"serper_api_key,omitempty"`

	// Twitter/X posting credentials (all four required to enable posting)
	TwitterAPIKey       string `json:"twitter_api_key,omitempty"`
	TwitterAPISecret    string `json:"twitter_api_secret,omitempty"`
	TwitterAccessToken  string `json:"twitter_access_token,omitempty"`
	TwitterAccessSecret string `json:"twitter_access_secret,omitempty"`

	// YouTube upload credentials
	YouTubeTokenPath string `json:"youtube_token_path,omitempty"`

	// Paths
	DBPath    string `json:"db_path,omitempty"`
	UploadDir string `json:"upload_dir,omitempty"`
	ClipDir   string `json:"clip_dir,omitempty"`

	// External tool binaries
	FFmpegBinary  string `json:"ffmpeg_binary,omitempty"`
	FFprobeBinary string `json:"ffprobe_binary,omitempty"`

	// Clipping parameters
	MinClipSeconds  float64 `json:"min_clip_seconds,omitempty" validate:"gte=0"`
	MaxClipSeconds  float64 `json:"max_clip_seconds,omitempty" validate:"gte=0"`
	TargetClipCount int     `json:"target_clip_count,omitempty" validate:"gte=0"`
}

// MissingConfigError identifies a required configuration key that was not set
type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// Default returns the built-in configuration defaults
func Default() Config {
	return Config{
		DBPath:          "nexus_data.db",
		UploadDir:       "uploads",
		ClipDir:         "shorts",
		FFmpegBinary:    "ffmpeg",
		FFprobeBinary:   "ffprobe",
		MinClipSeconds:  15,
		MaxClipSeconds:  60,
		TargetClipCount: 3,
	}
}

// LoadFile loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables
func FromEnv() Config {
	return Config{
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		SerperAPIKey:        os.Getenv("SERPER_API_KEY"),
		TwitterAPIKey:       os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:    os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
		YouTubeTokenPath:    os.Getenv("YOUTUBE_TOKEN_PATH"),
		DBPath:              os.Getenv("NEXUS_DB_PATH"),
	}
}

// Load assembles the effective configuration: file values (if a path is
// given) overlaid with environment variables, then defaults for whatever
// remains unset. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Config{}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}

	cfg = cfg.Merge(FromEnv())
	cfg = cfg.Merge(Default())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Merge returns a new Config with empty fields filled from fallback
func (c Config) Merge(fallback Config) Config {
	result := c

	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = fallback.GeminiAPIKey
	}
	if result.SerperAPIKey == "" {
		result.SerperAPIKey = fallback.SerperAPIKey
	}
	if result.TwitterAPIKey == "" {
		result.TwitterAPIKey = fallback.TwitterAPIKey
	}
	if result.TwitterAPISecret == "" {
		result.TwitterAPISecret = fallback.TwitterAPISecret
	}
	if result.TwitterAccessToken == "" {
		result.TwitterAccessToken = fallback.TwitterAccessToken
	}
	if result.TwitterAccessSecret == "" {
		result.TwitterAccessSecret = fallback.TwitterAccessSecret
	}
	if result.YouTubeTokenPath == "" {
		result.YouTubeTokenPath = fallback.YouTubeTokenPath
	}
	if result.DBPath == "" {
		result.DBPath = fallback.DBPath
	}
	if result.UploadDir == "" {
		result.UploadDir = fallback.UploadDir
	}
	if result.ClipDir == "" {
		result.ClipDir = fallback.ClipDir
	}
	if result.FFmpegBinary == "" {
		result.FFmpegBinary = fallback.FFmpegBinary
	}
	if result.FFprobeBinary == "" {
		result.FFprobeBinary = fallback.FFprobeBinary
	}
	if result.MinClipSeconds == 0 {
		result.MinClipSeconds = fallback.MinClipSeconds
	}
	if result.MaxClipSeconds == 0 {
		result.MaxClipSeconds = fallback.MaxClipSeconds
	}
	if result.TargetClipCount == 0 {
		result.TargetClipCount = fallback.TargetClipCount
	}

	return result
}

// Validate checks that the configuration is usable: struct-level range
// checks plus presence of the one credential nothing can run without.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return &MissingConfigError{Key: "GEMINI_API_KEY"}
	}
	if len(c.GeminiAPIKey) < 10 {
		return fmt.Errorf("config error: GEMINI_API_KEY appears to be invalid (too short)")
	}
	if c.MaxClipSeconds < c.MinClipSeconds {
		return fmt.Errorf("config error: max_clip_seconds (%g) must be >= min_clip_seconds (%g)",
			c.MaxClipSeconds, c.MinClipSeconds)
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// TwitterConfigured reports whether all four Twitter credentials are present
func (c *Config) TwitterConfigured() bool {
	return c.TwitterAPIKey != "" && c.TwitterAPISecret != "" &&
		c.TwitterAccessToken != "" && c.TwitterAccessSecret != ""
}
