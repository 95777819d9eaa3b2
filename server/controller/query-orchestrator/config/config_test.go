package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PATH_DATASET", "/data/reviews.csv")
	t.Setenv("NUM_WORKERS", "4")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/data/reviews.csv", cfg.DatasetLocation)
	assert.Equal(t, 3000000, cfg.TotalRows)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, "exact-books", cfg.Query)
	assert.Equal(t, TransportInProcess, cfg.Transport)
	assert.Equal(t, "localhost", cfg.RabbitMQ.Host)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, "localhost", cfg.ToMiddlewareConfig().Host)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "job.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PATH_DATASET=/from/file.csv\nDATASET_SIZE=120\nQUERY=q4\n"), 0o644))

	t.Setenv("ENV_FILE", envFile)
	t.Setenv("QUERY", "q3")
	// Register cleanup, then unset so the file can provide the values.
	t.Setenv("PATH_DATASET", "")
	t.Setenv("DATASET_SIZE", "")
	require.NoError(t, os.Unsetenv("PATH_DATASET"))
	require.NoError(t, os.Unsetenv("DATASET_SIZE"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "q3", cfg.Query, "environment wins over the file")
	assert.Equal(t, 120, cfg.TotalRows)
	assert.Equal(t, "/from/file.csv", cfg.DatasetLocation)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"DATASET_SIZE", "lots"},
		{"NUM_WORKERS", "two"},
		{"RABBITMQ_PORT", "amqp"},
		{"TRANSPORT", "carrier-pigeon"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
