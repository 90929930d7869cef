package overlayfs

import (
	"io"
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"sirherobrine23.com.br/go-bds/modmount/host"
	"sirherobrine23.com.br/go-bds/modmount/overlayfs/mergefs"
)

// Build merged tree from base folder, consuming iterator
func Build(h host.Host, base string, it *mergefs.Iterator) (*Dir, error) {
	base = path.Clean(base)
	dir := &Dir{
		Children:         map[string]Node{},
		ExistsUnmodified: host.Exists(h, base),
		missing:          map[string]bool{},
	}

	log.Debugf("tree on %s", base)
	for {
		entry, err := it.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		targetPath := path.Join(base, entry.Name)
		switch entry.Kind {
		case mergefs.KindReplace:
			dir.FullyReplaced = true
		case mergefs.KindDir:
			if !host.Exists(h, targetPath) {
				dir.missing[entry.Name] = true
			}
			child, err := Build(h, targetPath, entry.Dir)
			if err != nil {
				return nil, err
			}
			dir.ExistsUnmodified = dir.ExistsUnmodified && !dir.dirty() && child.ExistsUnmodified
			dir.Children[entry.Name] = child
		default:
			// Only regular file replacing real regular file keep folder untouched
			if entry.Symlink || entry.Whiteout() {
				dir.changed = true
			} else if info, err := h.Lstat(targetPath); err != nil || info.Mode()&os.ModeSymlink != 0 || info.IsDir() {
				dir.changed = true
			}
			dir.ExistsUnmodified = dir.ExistsUnmodified && !dir.dirty()
			dir.Children[entry.Name] = &File{Source: entry.Source, Symlink: entry.Symlink}
		}
	}
	return dir, nil
}
