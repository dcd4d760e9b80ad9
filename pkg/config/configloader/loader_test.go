package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port    int           `koanf:"port"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"server"`
	Store struct {
		Driver string `koanf:"driver"`
	} `koanf:"store"`
	Name string `koanf:"name"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_Load_Precedence(t *testing.T) {
	// given
	yamlFile := writeFile(t, "config.yaml", "server:\n  port: 8080\n  timeout: 5s\nstore:\n  driver: memory\nname: from-yaml\n")
	envFile := writeFile(t, ".env", "TESTSVC_STORE_DRIVER=mongo\nTESTSVC_NAME=from-dotenv\nOTHER_NAME=ignored\n")
	t.Setenv("TESTSVC_NAME", "from-env")

	// when
	cfg, err := Load[*testConfig]("testsvc", WithConfigFile(yamlFile), WithEnvFile(envFile))

	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "mongo", cfg.Store.Driver, ".env overrides yaml")
	assert.Equal(t, "from-env", cfg.Name, "process env overrides .env")
}

func Test_Load_MissingFiles(t *testing.T) {
	// given
	dir := t.TempDir()
	t.Setenv("TESTSVC_SERVER_PORT", "9090")

	// when
	cfg, err := Load[*testConfig]("testsvc",
		WithConfigFile(filepath.Join(dir, "absent.yaml")),
		WithEnvFile(filepath.Join(dir, "absent.env")))

	// then
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func Test_Load_ValidationError(t *testing.T) {
	dir := t.TempDir()
	_, err := Load[*testConfig]("testsvc",
		WithConfigFile(filepath.Join(dir, "absent.yaml")),
		WithEnvFile(filepath.Join(dir, "absent.env")))
	assert.ErrorContains(t, err, "port is required")
}
