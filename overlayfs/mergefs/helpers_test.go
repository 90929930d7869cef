package mergefs

import (
	"io"
	"path"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
	"sirherobrine23.com.br/go-bds/modmount/config"
	"sirherobrine23.com.br/go-bds/modmount/host"
)

// Make memory host with files, "->" prefix make symlink and "x" make whiteout,
// paths ending with "/" are folders
func newHost(t *testing.T, files map[string]string) (*host.Memory, *config.Config) {
	t.Helper()
	mem, cfg := host.NewMemory(), config.Default()
	for name, content := range files {
		switch {
		case name[len(name)-1] == '/':
			require.NoError(t, mem.MkdirAll(name, 0755))
		case content == "x":
			require.NoError(t, mem.MkdirAll(path.Dir(name), 0755))
			require.NoError(t, mem.Whiteout(name))
		case len(content) > 2 && content[:2] == "->":
			require.NoError(t, mem.MkdirAll(path.Dir(name), 0755))
			require.NoError(t, mem.Symlink(content[2:], name))
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

// Read every entry from iterator, keyed by path
func collect(t *testing.T, it *Iterator, prefix string) map[string]Entry {
	t.Helper()
	out := map[string]Entry{}
	for {
		entry, err := it.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		name := path.Join(prefix, entry.Name)
		out[name] = entry
		if entry.Kind == KindDir {
			for childName, child := range collect(t, entry.Dir, name) {
				out[childName] = child
			}
		}
	}
}
