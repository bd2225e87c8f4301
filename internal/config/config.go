package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sushrutsadana/movieagent2/internal/domain"
)

// Fixed artifact file names inside Index.Dir. The builder writes them,
// both front-ends load them; they are never renamed or versioned.
const (
	ArtifactBinaryFile = "movie_index.bin"
	ArtifactJSONFile   = "movie_index.json"
	CatalogFile        = "catalog.db"
)

// Config holds the movie agent configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	OMDB     OMDBConfig     `yaml:"omdb"`
	Telegram TelegramConfig `yaml:"telegram"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Index    IndexConfig    `yaml:"index"`
	Cache    CacheConfig    `yaml:"cache"`
	Agent    AgentConfig    `yaml:"agent"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds the health/metrics HTTP server settings (telegram-bot only).
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// OpenAIConfig holds embedding/LLM provider settings.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	Dimensions     int    `yaml:"dimensions"`
}

// OMDBConfig holds OMDb API settings. An empty key disables review lookups.
type OMDBConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token          string `yaml:"token"`
	PollTimeoutSec int    `yaml:"poll_timeout_sec"`
}

// DatasetConfig points at the source dataset directory consumed by the builder.
type DatasetConfig struct {
	Dir string `yaml:"dir"`
}

// IndexConfig holds artifact location settings.
type IndexConfig struct {
	Dir string `yaml:"dir"`
}

// CacheConfig holds the optional Redis embedding cache settings.
// Empty addrs disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

// AgentConfig holds conversational settings.
type AgentConfig struct {
	TopK       int `yaml:"top_k"`
	MaxHistory int `yaml:"max_history"`
}

// BinaryArtifactPath returns the path of the gob-serialized index.
func (c Config) BinaryArtifactPath() string {
	return filepath.Join(c.Index.Dir, ArtifactBinaryFile)
}

// JSONArtifactPath returns the path of the human-debuggable JSON mirror.
func (c Config) JSONArtifactPath() string {
	return filepath.Join(c.Index.Dir, ArtifactJSONFile)
}

// CatalogPath returns the path of the SQLite movie catalog.
func (c Config) CatalogPath() string {
	return filepath.Join(c.Index.Dir, CatalogFile)
}

// LoadEnvFile loads a .env file into the process environment if one exists.
// Missing files are fine: production supplies real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4-turbo"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = "https://www.omdbapi.com"
	}
	if c.Telegram.PollTimeoutSec <= 0 {
		c.Telegram.PollTimeoutSec = 60
	}
	if c.Dataset.Dir == "" {
		c.Dataset.Dir = "Data"
	}
	if c.Index.Dir == "" {
		c.Index.Dir = "."
	}
	if c.Agent.TopK <= 0 {
		c.Agent.TopK = 5
	}
	if c.Agent.MaxHistory <= 0 {
		c.Agent.MaxHistory = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("%w: openai.api_key is required (set OPENAI_API_KEY)", domain.ErrConfiguration)
	}
	if c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port must be between 1 and 65535, got %d", domain.ErrConfiguration, c.HTTP.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
