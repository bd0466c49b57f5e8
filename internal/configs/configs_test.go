package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	// Run from a directory without a .env file.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "LOG_LEVEL", "ALLOWED_ORIGINS", "STORE_DRIVER", "DATABASE_URL",
		"STORAGE_DRIVER", "UPLOAD_DIR", "S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID",
		"S3_SECRET_ACCESS_KEY", "S3_PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, StorageDriverLocal, cfg.StorageDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoadConfigParsesOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"non-numeric port":  {"PORT": "http"},
		"privileged port":   {"PORT": "80"},
		"unknown store":     {"STORE_DRIVER": "mongo"},
		"unknown storage":   {"STORAGE_DRIVER": "ftp"},
		"prod without dsn":  {"ENVIRONMENT": "production"},
		"s3 without bucket": {"STORAGE_DRIVER": "s3"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMemoryStoreNeedsNoDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.False(t, cfg.IsDevelopment())
}
