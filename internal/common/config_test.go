package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_URL", "PDFTOTEXT_BIN", "TESSERACT_BIN",
		"OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_TIMEOUT", "FIXER_BASE_URL", "PIPELINE_WORKERS"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "invoices.db", cfg.Database.DSN)
	assert.Equal(t, "pdftotext", cfg.Extract.Pdftotext)
	assert.Equal(t, "tesseract", cfg.Extract.Tesseract)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Structurer.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Structurer.Model)
	assert.Equal(t, "https://data.fixer.io/api", cfg.Rates.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Structurer.Timeout)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/invoices")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TIMEOUT", "10s")
	t.Setenv("PIPELINE_WORKERS", "4")

	cfg := LoadConfig()
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/invoices", cfg.Database.DSN)
	assert.Equal(t, "gpt-4o", cfg.Structurer.Model)
	assert.Equal(t, 10*time.Second, cfg.Structurer.Timeout)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
}

func TestValidate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	cfg.Structurer.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Pipeline.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateMissingRatesKeyIsAllowed(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FIXER_API_KEY", "")
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate(), "rate conversion degrades softly without a key")
}
