package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, remote.KindGRPC, c.Remote.Kind)
	assert.Equal(t, "127.0.0.1:50051", c.Remote.GRPC.Addr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, filepath.Join(c.DataDir, "notes.db"), c.DBPath())
	assert.Equal(t, filepath.Join(c.DataDir, "client.log"), c.LogPath())
}

func TestLoadConfig_NoArgs(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:50051", cfg.Remote.GRPC.Addr)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_YAMLThenFlags(t *testing.T) {
	path := writeFile(t, "client.yaml", `
data_dir: /tmp/notes
online_check_interval: 10s
use_netlink: true
remote:
  kind: s3
  s3:
    bucket: notes
    region: eu-west-1
identity:
  secret: shh
`)

	cfg, err := LoadConfig([]string{"-c", path, "-i", "7", "-w", "127.0.0.1:8090", "-unrelated", "x"})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/notes", cfg.DataDir)
	assert.Equal(t, remote.KindS3, cfg.Remote.Kind)
	assert.Equal(t, "notes", cfg.Remote.S3.Bucket)
	assert.True(t, cfg.UseNetlink)
	assert.Equal(t, "shh", cfg.IdentitySecret)
	assert.Equal(t, "gophnotes", cfg.IdentityIssuer)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, "127.0.0.1:8090", cfg.LiveFeedAddr)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "client.json", `{"remote":{"kind":"grpc","grpc":{"addr":"example:9000"}},"probe_timeout":"500ms"}`)

	cfg, err := LoadConfig([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "example:9000", cfg.Remote.GRPC.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.ProbeTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	bad := writeFile(t, "bad.json", `{ this is not valid json`)

	tests := []struct {
		name string
		args []string
	}{
		{name: "unreadable file", args: []string{"-c", filepath.Join(t.TempDir(), "missing.json")}},
		{name: "invalid file", args: []string{"-c", bad}},
		{name: "non-numeric interval", args: []string{"-i", "abc"}},
		{name: "zero interval", args: []string{"-i", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			require.Error(t, err)
		})
	}
}
