package overlayfs

import (
	"os"
	"path"

	"github.com/jmgilman/go/errors"
	log "github.com/sirupsen/logrus"
	"sirherobrine23.com.br/go-bds/modmount/host"
)

type mounter struct {
	host   host.Host
	worker string // Staging root, real paths are appended to it
}

// Mount merged folder in dest, staging folders created in worker.
//
// Dest only get staging folder if your own entries require it,
// changes in children folders are mounted in children folders.
// Children folders are checked again in dest, tree may be built from another path.
func Mount(h host.Host, worker string, dir *Dir, dest string) error {
	dest = path.Clean(dest)
	for name := range dir.missing {
		if host.Exists(h, path.Join(dest, name)) {
			delete(dir.missing, name)
		}
	}
	dir.ExistsUnmodified = !dir.dirty()
	return dir.realize(&mounter{host: h, worker: path.Clean(worker)}, dest, false)
}

func (m *mounter) staging(nodePath string) string { return path.Join(m.worker, nodePath) }

// Attributes are best effort, failure only logged
func (m *mounter) cloneAttr(src, dst string) {
	if err := host.CloneAttr(m.host, src, dst); err != nil {
		log.WithFields(log.Fields{"src": src, "dst": dst}).Warnf("cannot clone attributes: %s", err)
	}
}

func (dir *Dir) realize(m *mounter, nodePath string, parentStaged bool) error {
	staged := !dir.ExistsUnmodified || dir.FullyReplaced || parentStaged
	var worker string
	if staged {
		worker = m.staging(nodePath)
		switch {
		case dir.FullyReplaced:
			log.Debugf("replace : %s", worker)
		case parentStaged:
			log.Debugf("mkdir   : %s", worker)
		default:
			log.Debugf("tmpfs   : %s", worker)
		}
		if err := m.host.MkdirAll(worker, 0); err != nil {
			return host.Error(err, "mkdir", worker)
		}
		m.cloneAttr(host.NearestExisting(m.host, nodePath), worker)
	}

	for _, name := range dir.Names() {
		if err := dir.Children[name].realize(m, path.Join(nodePath, name), staged); err != nil {
			return err
		}
	}

	if staged && !dir.FullyReplaced {
		if err := m.mirror(dir, nodePath, worker); err != nil {
			return err
		}
	}

	if staged && !parentStaged {
		log.Debugf("move    : %s <- %s", nodePath, worker)
		if err := m.host.BindMount(worker, nodePath); err != nil {
			return host.Error(err, "mount", nodePath)
		}
	}
	return nil
}

// Copy real folder entries not merged to staging folder
func (m *mounter) mirror(dir *Dir, nodePath, worker string) error {
	if info, err := m.host.Stat(nodePath); err != nil || !info.IsDir() {
		return nil
	}
	entries, err := m.host.ReadDir(nodePath)
	if err != nil {
		return host.Error(err, "readdir", nodePath)
	}
	for _, entry := range entries {
		if _, merged := dir.Children[entry.Name()]; merged {
			continue
		}
		if err := m.mirrorEntry(path.Join(nodePath, entry.Name()), path.Join(worker, entry.Name()), entry); err != nil {
			return err
		}
	}
	return nil
}

func (m *mounter) mirrorEntry(realPath, worker string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		log.Debugf("mkdir   : %s", worker)
		if err := m.host.MkdirAll(worker, 0); err != nil {
			return host.Error(err, "mkdir", worker)
		}
		m.cloneAttr(realPath, worker)
		entries, err := m.host.ReadDir(realPath)
		if err != nil {
			return host.Error(err, "readdir", realPath)
		}
		for _, entry := range entries {
			if err := m.mirrorEntry(path.Join(realPath, entry.Name()), path.Join(worker, entry.Name()), entry); err != nil {
				return err
			}
		}
	case info.Mode()&os.ModeSymlink != 0:
		log.Debugf("cp_link : %s <- %s", worker, realPath)
		link, err := m.host.Readlink(realPath)
		if err != nil {
			return host.Error(err, "readlink", realPath)
		} else if err = m.host.Symlink(link, worker); err != nil {
			return host.Error(err, "symlink", worker)
		}
		m.cloneAttr(realPath, worker)
	default:
		log.Debugf("mirror  : %s <- %s", worker, realPath)
		if err := host.CreatePlaceholder(m.host, worker); err != nil {
			return host.Error(err, "create", worker)
		} else if err = m.host.BindMount(realPath, worker); err != nil {
			return host.Error(err, "mount", worker)
		}
	}
	return nil
}

func (file *File) realize(m *mounter, nodePath string, parentStaged bool) error {
	switch {
	case file.Deleted():
		log.Debugf("delete  : %s", nodePath)
		return nil
	case file.Symlink:
		// Symlink cannot be mounted on top of existing file
		if !parentStaged {
			return errors.WithContext(errors.New(errors.CodeInternal, "symlink outside staging folder"), "path", nodePath)
		}
		worker := m.staging(nodePath)
		log.Debugf("symlink : %s <- %s", worker, file.Source)
		return host.Error(m.host.Symlink(file.Source, worker), "symlink", worker)
	case parentStaged:
		worker := m.staging(nodePath)
		log.Debugf("module  : %s <- %s", worker, file.Source)
		if err := host.CreatePlaceholder(m.host, worker); err != nil {
			return host.Error(err, "create", worker)
		}
		return host.Error(m.host.BindMount(file.Source, worker), "mount", worker)
	default:
		log.Debugf("module  : %s <- %s", nodePath, file.Source)
		m.cloneAttr(nodePath, file.Source)
		return host.Error(m.host.BindMount(file.Source, nodePath), "mount", nodePath)
	}
}
