package overlayfs

import (
	"path"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"sirherobrine23.com.br/go-bds/modmount/config"
	"sirherobrine23.com.br/go-bds/modmount/host"
)

const worker = "/debug_ramdisk/.magisk/worker"

// Make memory host with files, "->" prefix make symlink and "x" make whiteout,
// paths ending with "/" are folders
func newHost(t *testing.T, files map[string]string) (*host.Memory, *config.Config) {
	t.Helper()
	mem, cfg := host.NewMemory(), config.Default()
	for name, content := range files {
		switch {
		case strings.HasSuffix(name, "/"):
			require.NoError(t, mem.MkdirAll(name, 0755))
		case content == "x":
			require.NoError(t, mem.MkdirAll(path.Dir(name), 0755))
			require.NoError(t, mem.Whiteout(name))
		case strings.HasPrefix(content, "->"):
			require.NoError(t, mem.MkdirAll(path.Dir(name), 0755))
			require.NoError(t, mem.Symlink(strings.TrimPrefix(content, "->"), name))
		default:
			require.NoError(t, util.WriteFile(mem, name, []byte(content), 0644))
		}
	}
	return mem, cfg
}

// Module path in default config
func modulePath(name, file string) string {
	return path.Join("/debug_ramdisk/.magisk/modules", name, file)
}

func staging(name string) string { return path.Join(worker, name) }
