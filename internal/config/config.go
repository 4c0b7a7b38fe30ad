package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// LLM endpoint (OpenAI-compatible)
	LLMBaseURL     string        `yaml:"llm_base_url"`
	LLMAPIKey      string        `yaml:"llm_api_key"`
	LLMModel       string        `yaml:"llm_model"`
	LLMTemperature float64       `yaml:"llm_temperature"`
	LLMMaxTokens   int           `yaml:"llm_max_tokens"`
	LLMTimeout     time.Duration `yaml:"llm_timeout"`

	// Worker pool
	WorkerCount           int `yaml:"worker_count"`
	MaxQueueSize          int `yaml:"max_queue_size"`
	MaxConcurrentGenerate int `yaml:"max_concurrent_generate"`
	BatchTokens           int `yaml:"batch_tokens"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Batch workflow directories and default input names
	InputsDir  string `yaml:"inputs_dir"`
	OutputsDir string `yaml:"outputs_dir"`
	ConfigDir  string `yaml:"config_dir"`
	SpecFile   string `yaml:"spec_file"`
	MatrixFile string `yaml:"matrix_file"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port: "8090",

		LLMBaseURL:     "https://dashscope.aliyuncs.com/compatible-mode/v1",
		LLMModel:       "qwen-plus",
		LLMTemperature: 0.3,
		LLMMaxTokens:   4000,
		LLMTimeout:     120 * time.Second,

		WorkerCount:           2,
		MaxQueueSize:          100,
		MaxConcurrentGenerate: 2,
		BatchTokens:           6000,

		MaxUploadBytes: 52428800, // 50MB

		JobTTL: 1 * time.Hour,

		PDFFallbackPdftotext: true,

		InputsDir:  "inputs",
		OutputsDir: "outputs",
		ConfigDir:  "config",
		SpecFile:   "功能规范-第七章.pdf",
		MatrixFile: "CAN信号矩阵-第七章.xlsx",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// TESTGEST_CONFIG (or config/testgest.yaml when present), then environment
// variables.
func Load() (Config, error) {
	cfg := Defaults()

	path, explicit := os.LookupEnv("TESTGEST_CONFIG")
	if !explicit || path == "" {
		path = filepath.Join(envOr("CONFIG_DIR", cfg.ConfigDir), "testgest.yaml")
		explicit = false
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)

	c.APIKey = envOr("TESTGEST_API_KEY", c.APIKey)

	c.LLMBaseURL = envOr("LLM_BASE_URL", c.LLMBaseURL)
	c.LLMAPIKey = envOr("LLM_API_KEY", envOr("DASHSCOPE_API_KEY", c.LLMAPIKey))
	c.LLMModel = envOr("LLM_MODEL", c.LLMModel)
	c.LLMTemperature = envFloat("LLM_TEMPERATURE", c.LLMTemperature)
	c.LLMMaxTokens = envInt("LLM_MAX_TOKENS", c.LLMMaxTokens)
	c.LLMTimeout = envDuration("LLM_TIMEOUT", c.LLMTimeout)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)
	c.MaxConcurrentGenerate = envInt("MAX_CONCURRENT_GENERATE", c.MaxConcurrentGenerate)
	c.BatchTokens = envInt("BATCH_TOKENS", c.BatchTokens)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)

	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)

	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)

	c.InputsDir = envOr("INPUTS_DIR", c.InputsDir)
	c.OutputsDir = envOr("OUTPUTS_DIR", c.OutputsDir)
	c.ConfigDir = envOr("CONFIG_DIR", c.ConfigDir)
	c.SpecFile = envOr("SPEC_FILE", c.SpecFile)
	c.MatrixFile = envOr("MATRIX_FILE", c.MatrixFile)
}

func (c *Config) fillDefaults() {
	d := Defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxConcurrentGenerate <= 0 {
		c.MaxConcurrentGenerate = d.MaxConcurrentGenerate
	}
	if c.BatchTokens < 0 {
		c.BatchTokens = 0
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.LLMMaxTokens <= 0 {
		c.LLMMaxTokens = d.LLMMaxTokens
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = d.LLMTimeout
	}
}

// Validate checks what the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TESTGEST_API_KEY is required")
	}
	return c.ValidateLLM()
}

// ValidateLLM checks what test-case generation needs.
func (c Config) ValidateLLM() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be within [0, 2], got %g", c.LLMTemperature)
	}
	return nil
}

// EnsureDirs creates the inputs, outputs and config directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.InputsDir, c.OutputsDir, c.ConfigDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// SpecPath is the default specification document path.
func (c Config) SpecPath() string { return filepath.Join(c.InputsDir, c.SpecFile) }

// MatrixPath is the default signal matrix path.
func (c Config) MatrixPath() string { return filepath.Join(c.InputsDir, c.MatrixFile) }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
