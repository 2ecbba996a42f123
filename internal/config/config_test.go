package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "artifacts", cfg.Data.ArtifactsDir)
	assert.Equal(t, []string{"http://localhost:3006"}, cfg.CORS.Origins)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.False(t, cfg.Minio.Enabled)
}

func TestLoadFullConfig(t *testing.T) {
	raw := `server:
  port: 8080
data:
  dir: /var/lib/governance
  artifactsDir: /var/lib/governance/artifacts
cors:
  origins:
    - " https://governance.example.com "
openai:
  apiKey: sk-test
  model: gpt-4o-mini
minio:
  enabled: true
  endpoint: minio.local:9000
  bucketName: evidence
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/var/lib/governance", cfg.Data.Dir)
	assert.Equal(t, []string{"https://governance.example.com"}, cfg.CORS.Origins)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.True(t, cfg.Minio.Enabled)
	assert.Equal(t, "evidence", cfg.Minio.BucketName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestPathHelpers(t *testing.T) {
	cfg := Default()
	cfg.Data.Dir = "/srv/data"
	cfg.Data.ArtifactsDir = "/srv/artifacts"

	assert.Equal(t, filepath.Join("/srv/data", "models.json"), cfg.DataFile("models.json"))
	assert.Equal(t, filepath.Join("/srv/artifacts", "evidence_packs"), cfg.EvidencePacksDir())
}
