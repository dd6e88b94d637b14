package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/maestro-chat/maestro/internal/logger"
)

// Default configuration values.
const (
	DefaultConfigFile = "config.toml"
	DefaultHost       = "0.0.0.0"
	DefaultPort       = 8000
	DefaultLanguage   = "Chinese"
	DefaultTopK       = 8
	DefaultNamespace  = "common"
)

// Config is the full application configuration. Every pipeline tunable
// lives here; nothing is hardcoded in the services.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Chat      ChatConfig      `toml:"chat"`
	LLM       ProviderConfig  `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Vector    VectorConfig    `toml:"vector"`
	Storage   StorageConfig   `toml:"storage"`
	Prompts   PromptsConfig   `toml:"prompts"`
	Verbose   bool            `toml:"verbose"`
}

// ServerConfig tunes the HTTP API server.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

// ChatConfig tunes the retrieval and generation pipeline.
type ChatConfig struct {
	// DefaultNamespace receives unknown characters and root-level data.
	DefaultNamespace string `toml:"default_namespace"`

	// Namespaces is the configured retrieval partitions.
	Namespaces []string `toml:"namespaces"`

	// Language is the primary answer language.
	Language string `toml:"language"`

	// TopK is how many passages retrieval requests per question.
	TopK int `toml:"top_k"`

	// RoutingMode is "direct" (default) or "query".
	RoutingMode string `toml:"routing_mode"`

	// Temperature is the default sampling temperature; requests may
	// override it per call.
	Temperature *float64 `toml:"temperature"`
}

// ProviderConfig selects and configures the chat model provider.
type ProviderConfig struct {
	// Provider is "gemini", "openai", "anthropic" or "ollama".
	Provider string `toml:"provider"`

	APIKey            string   `toml:"api_key"`
	BaseURL           string   `toml:"base_url"`
	Model             string   `toml:"model"`
	Timeout           duration `toml:"timeout"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Provider is "gemini", "openai" or "ollama". Empty follows the LLM
	// provider.
	Provider string `toml:"provider"`

	APIKey     string   `toml:"api_key"`
	BaseURL    string   `toml:"base_url"`
	Model      string   `toml:"model"`
	Dimensions int      `toml:"dimensions"`
	Timeout    duration `toml:"timeout"`
}

// VectorConfig selects and configures the vector store.
type VectorConfig struct {
	// Provider is "pinecone" or "memory".
	Provider string `toml:"provider"`

	APIKey    string `toml:"api_key"`
	IndexName string `toml:"index_name"`
	IndexHost string `toml:"index_host"`
	Cloud     string `toml:"cloud"`
	Region    string `toml:"region"`
}

// StorageConfig selects where feedback is persisted.
type StorageConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `toml:"driver"`

	// DataDir holds the SQLite database (default: ~/.maestro/data).
	DataDir string `toml:"data_dir"`
}

// PromptsConfig points at the editable prompt templates.
type PromptsConfig struct {
	// Dir holds the template files (default: ~/.maestro/prompts).
	Dir string `toml:"dir"`
}

// duration parses TOML duration strings like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads configuration from the given TOML file, then applies
// environment overrides. A `.env` file in the working directory is
// loaded first so local development does not need exported variables.
// A missing config file yields defaults rather than an error.
func Load(path string) (*Config, error) {
	// Best effort; absence of .env is the common case.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment from .env")
	}

	cfg := defaults()

	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
		logger.Debug("loaded config from %q", path)
	case os.IsNotExist(err):
		logger.Debug("config file %q not found, using defaults", path)
	default:
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     duration{30 * time.Second},
			WriteTimeout:    duration{5 * time.Minute},
			ShutdownTimeout: duration{10 * time.Second},
			AllowedOrigins:  []string{"*"},
		},
		Chat: ChatConfig{
			DefaultNamespace: DefaultNamespace,
			Namespaces:       []string{DefaultNamespace},
			Language:         DefaultLanguage,
			TopK:             DefaultTopK,
			RoutingMode:      "direct",
		},
		LLM: ProviderConfig{
			Provider: "gemini",
		},
		Vector: VectorConfig{
			Provider: "pinecone",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, ".maestro", DefaultConfigFile)
}

// applyEnvOverrides lets secrets and deploy-specific values come from
// the environment instead of the config file.
func applyEnvOverrides(cfg *Config) {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&cfg.LLM.Provider, "MAESTRO_LLM_PROVIDER")
	setString(&cfg.LLM.Model, "MAESTRO_LLM_MODEL")
	setString(&cfg.LLM.BaseURL, "MAESTRO_LLM_BASE_URL")
	setString(&cfg.Embedding.Model, "MAESTRO_EMBEDDING_MODEL")
	setString(&cfg.Vector.IndexName, "PINECONE_INDEX_NAME")
	setString(&cfg.Vector.IndexHost, "PINECONE_INDEX_HOST")

	// Provider keys follow each vendor's conventional variable name.
	switch cfg.LLM.Provider {
	case "openai":
		setString(&cfg.LLM.APIKey, "OPENAI_API_KEY", "MAESTRO_LLM_API_KEY")
	default:
		setString(&cfg.LLM.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY", "MAESTRO_LLM_API_KEY")
	}
	switch cfg.Embedding.Provider {
	case "openai":
		setString(&cfg.Embedding.APIKey, "OPENAI_API_KEY", "MAESTRO_EMBEDDING_API_KEY")
	case "gemini":
		setString(&cfg.Embedding.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY", "MAESTRO_EMBEDDING_API_KEY")
	}
	setString(&cfg.Vector.APIKey, "PINECONE_API_KEY")
}

// EmbeddingProvider resolves the effective embedding provider: when
// unset it follows the chat provider so one key configures both.
func (c *Config) EmbeddingProvider() string {
	if c.Embedding.Provider != "" {
		return c.Embedding.Provider
	}
	// Anthropic has no embedding API, so its chat users fall back to
	// the default embedding provider.
	if c.LLM.Provider == "anthropic" {
		return ""
	}
	return c.LLM.Provider
}

// EmbeddingAPIKey resolves the effective embedding key.
func (c *Config) EmbeddingAPIKey() string {
	if c.Embedding.APIKey != "" {
		return c.Embedding.APIKey
	}
	if c.EmbeddingProvider() == c.LLM.Provider {
		return c.LLM.APIKey
	}
	return ""
}
