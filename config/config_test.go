package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(t *testing.T, args ...string) *flag.FlagSet {
	t.Helper()
	fs := flag.NewFlagSet("sbu", flag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(flags(t), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBase)
	assert.Equal(t, "NGN", cfg.Currency)
	assert.Equal(t, time.Second, cfg.RefreshDelay)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.File)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	yaml := "api-base: http://file:9000/\ncurrency: usd\ntimeout: 5s\nrefresh-delay: 2s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))

	cfg, err := Load(flags(t), dir)
	require.NoError(t, err)
	assert.Equal(t, "http://file:9000", cfg.APIBase)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)

	t.Setenv("SBU_API_BASE", "http://env:9001")
	t.Setenv("SBU_REFRESH_DELAY", "3s")
	cfg, err = Load(flags(t), dir)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9001", cfg.APIBase)
	assert.Equal(t, 3*time.Second, cfg.RefreshDelay)

	cfg, err = Load(flags(t, "-api-base", "http://flag:9002", "-v"), dir)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:9002", cfg.APIBase)
	assert.Equal(t, 3*time.Second, cfg.RefreshDelay, "unset flags do not override")
	assert.True(t, cfg.Verbose)
}

func TestLoad_ExplicitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "desk.yaml")
	require.NoError(t, os.WriteFile(file, []byte("currency: EUR\n"), 0600))

	cfg, err := Load(flags(t, "-config", file))
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)

	_, err = Load(flags(t, "-config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(flags(t, "-timeout", "0s"), t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api-base: [unclosed\n"), 0600))
	_, err = Load(flags(t), dir)
	assert.Error(t, err)
}
