package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
store:
  backend: memory
jwt:
  secret: file-secret
report:
  download_url_expiry: 5m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("S3_BUCKET_NAME", "reports")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 5*time.Minute, cfg.Report.DownloadURLExpiry)
	assert.Equal(t, 30, cfg.Report.DefaultRangeDays)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	err := Config{Store: StoreConfig{Backend: "redis"}, JWT: JWTConfig{Secret: "x"}}.Validate()
	assert.ErrorContains(t, err, `unknown store.backend "redis"`)
}
