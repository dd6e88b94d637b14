package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_Defaults tests the zero-file case
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultNamespace, cfg.Chat.DefaultNamespace)
	assert.Equal(t, DefaultLanguage, cfg.Chat.Language)
	assert.Equal(t, DefaultTopK, cfg.Chat.TopK)
	assert.Equal(t, "direct", cfg.Chat.RoutingMode)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "pinecone", cfg.Vector.Provider)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
}

// TestLoad_FullFile tests parsing every section
func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
verbose = true

[server]
host = "127.0.0.1"
port = 9000
read_timeout = "15s"
allowed_origins = ["https://example.com"]

[chat]
default_namespace = "common"
namespaces = ["tocqueville", "confucius", "common"]
language = "English"
top_k = 4
routing_mode = "query"
temperature = 0.7

[llm]
provider = "openai"
model = "gpt-4o"
requests_per_minute = 30

[embedding]
provider = "openai"
model = "text-embedding-3-small"
dimensions = 1536

[vector]
provider = "pinecone"
index_name = "maestro"

[storage]
driver = "memory"

[prompts]
dir = "/tmp/prompts"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Verbose)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, []string{"tocqueville", "confucius", "common"}, cfg.Chat.Namespaces)
	assert.Equal(t, "English", cfg.Chat.Language)
	assert.Equal(t, 4, cfg.Chat.TopK)
	assert.Equal(t, "query", cfg.Chat.RoutingMode)
	require.NotNil(t, cfg.Chat.Temperature)
	assert.Equal(t, 0.7, *cfg.Chat.Temperature)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, "maestro", cfg.Vector.IndexName)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/prompts", cfg.Prompts.Dir)
}

// TestLoad_EnvOverrides tests that environment wins over the file
func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "openai"
api_key = "from-file"
`)

	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("PINECONE_API_KEY", "pc-env")
	t.Setenv("PINECONE_INDEX_NAME", "env-index")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "pc-env", cfg.Vector.APIKey)
	assert.Equal(t, "env-index", cfg.Vector.IndexName)
}

// TestLoad_GeminiKeyFallback tests vendor variable resolution order
func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "google-key", cfg.LLM.APIKey)
}

// TestLoad_InvalidTOML tests parse failure reporting
func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[server\nport = nope")

	_, err := Load(path)
	assert.Error(t, err)
}

// TestConfig_EmbeddingResolution tests the provider/key fallthrough
func TestConfig_EmbeddingResolution(t *testing.T) {
	cfg := defaults()
	cfg.LLM.Provider = "gemini"
	cfg.LLM.APIKey = "shared-key"

	assert.Equal(t, "gemini", cfg.EmbeddingProvider())
	assert.Equal(t, "shared-key", cfg.EmbeddingAPIKey())

	cfg.Embedding.Provider = "openai"
	cfg.Embedding.APIKey = "embed-key"
	assert.Equal(t, "openai", cfg.EmbeddingProvider())
	assert.Equal(t, "embed-key", cfg.EmbeddingAPIKey())
}
