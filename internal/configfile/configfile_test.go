package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Addr string `json:"addr" yaml:"addr"`
	Port int    `json:"port" yaml:"port"`
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"addr":"localhost","port":8080}`)

	var s sample
	require.NoError(t, Load(path, &s))
	assert.Equal(t, sample{Addr: "localhost", Port: 8080}, s)
}

func TestLoad_YAML(t *testing.T) {
	for _, name := range []string{"cfg.yaml", "cfg.YML"} {
		path := writeFile(t, name, "addr: example.org\nport: 9000\n")

		var s sample
		require.NoError(t, Load(path, &s))
		assert.Equal(t, sample{Addr: "example.org", Port: 9000}, s)
	}
}

func TestLoad_Errors(t *testing.T) {
	var s sample

	err := Load(filepath.Join(t.TempDir(), "missing.json"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")

	path := writeFile(t, "broken.json", `{"addr":`)
	err = Load(path, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode config")
}
