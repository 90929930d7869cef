package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/debug_ramdisk/.magisk/modules", cfg.ModulesPath())
	assert.Equal(t, "/debug_ramdisk/.magisk/worker", cfg.WorkerPath())
	assert.Equal(t, "/system", cfg.RootPath())
	assert.False(t, cfg.ZygiskEnabled())
	assert.Len(t, cfg.Binaries, 5)
}

func TestParseKeepDefaults(t *testing.T) {
	cfg, err := Parse([]byte("tmp: /sbin\nmodules: [a, b]\nzygisk_lib: libzygisk.so\n"))
	require.NoError(t, err)
	assert.Equal(t, "/sbin", cfg.Tmp)
	assert.Equal(t, []string{"a", "b"}, cfg.Modules)
	assert.True(t, cfg.ZygiskEnabled())
	assert.Equal(t, ".replace", cfg.ReplaceMarker)
	assert.Equal(t, []string{"product", "vendor", "system_ext"}, cfg.Partitions)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("tmp: relative/path\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	_, err = Parse([]byte("tmp: [\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	_, err = Parse([]byte("binaries:\n  - name: su\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "modmount.yaml")
	require.NoError(t, os.WriteFile(file, []byte("bin_path: /system/bin\n"), 0600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/system/bin", cfg.BinPath)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
