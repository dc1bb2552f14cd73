package config_test

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KretovDmitry/shortlinks/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleNetAddress_Set() {
	addr := config.NewNetAddress()

	err := addr.Set("example.com:8080")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(addr.String())
	// Output: example.com:8080
}

func ExampleNetAddress_Set_emptyHost() {
	addr := config.NewNetAddress()

	err := addr.Set(":9090")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(addr.String())
	// Output: 0.0.0.0:9090
}

func TestNetAddress_SetInvalid(t *testing.T) {
	addr := config.NewNetAddress()

	cases := []struct {
		input string
	}{
		{input: "invalid"},
		{input: "example.com"},
		{input: "example.com:NaN"},
		{input: "example.com:8080:8080"},
		{input: "example.com:8080:8080:8080"},
	}

	for _, c := range cases {
		err := addr.Set(c.input)
		require.Error(t, err, "invalid address produces no error")
	}
}

func TestEnabled_Set(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "true", want: true},
		{input: "1", want: true},
		{input: "T", want: true},
		{input: "false", want: false},
		{input: "0", want: false},
		{input: "yes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var e config.Enabled
			err := e.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(e))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3003", cfg.Server.RunAddress.String())
	assert.Equal(t, filepath.Join("data", "links.json"), cfg.FileStoragePath)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, "links", cfg.Redis.Key)
	assert.Equal(t, int64(1<<20), cfg.Shortener.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, bool(cfg.Shortener.GenerateCodes))
	assert.False(t, bool(cfg.RPC.Enabled))
}

func TestLoad_Flags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{"-a", ":8081", "-f", "/tmp/x.json", "-p", "web", "-l", "debug", "-s"}

	cfg, err := config.Load(fs, args)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8081", cfg.Server.RunAddress.String())
	assert.Equal(t, "/tmp/x.json", cfg.FileStoragePath)
	assert.Equal(t, "web", cfg.PublicDir)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, bool(cfg.TLSEnabled))
}

func TestLoad_EnvOverridesFlags(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:9999")
	t.Setenv("FILE_STORAGE_PATH", "env.json")
	t.Setenv("GENERATE_CODES", "true")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := config.Load(fs, []string{"-a", ":8081", "-f", "flag.json"})
	require.NoError(t, err)

	assert.Equal(t, "localhost:9999", cfg.Server.RunAddress.String())
	assert.Equal(t, "env.json", cfg.FileStoragePath)
	assert.True(t, bool(cfg.Shortener.GenerateCodes))
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
file_storage_path: from-file.json
public_dir: static
http_server:
  server_address: 127.0.0.1:4000
redis:
  key: short
shortener:
  validate_urls: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG", path)

	cfg, err := config.Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "from-file.json", cfg.FileStoragePath)
	assert.Equal(t, "static", cfg.PublicDir)
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.RunAddress.String())
	assert.Equal(t, "short", cfg.Redis.Key)
	assert.True(t, bool(cfg.Shortener.ValidateURLs))
	// Untouched values keep their defaults.
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := config.Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
		require.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))
		t.Setenv("CONFIG", path)
		_, err := config.Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
		require.ErrorContains(t, err, "unsupported configuration file extension")
	})
}

func TestNewForTest(t *testing.T) {
	cfg := config.NewForTest()
	assert.Empty(t, cfg.FileStoragePath, "tests use in memory storage by default")
	assert.NotNil(t, cfg.Server.RunAddress)
	assert.NotNil(t, cfg.RPC.Address)
}
