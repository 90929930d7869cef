package mergefs

import (
	"io"
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"sirherobrine23.com.br/go-bds/modmount/host"
)

// Merged entry type
type Kind int

const (
	KindFile    Kind = iota // File, symlink or whiteout
	KindDir                 // Folder, read children from Entry.Dir
	KindReplace             // Replace marker found in folder
)

// Entry merged from modules and virtual folders
type Entry struct {
	Name    string
	Kind    Kind
	Source  string    // Path to module file or symlink destination, blank to whiteout
	Symlink bool      // Source is symlink destination
	Dir     *Iterator // Children iterator if Kind is KindDir
}

// Entry is deletion
func (entry Entry) Whiteout() bool { return entry.Kind == KindFile && entry.Source == "" }

// Module folder, opened on first entry read
type source struct {
	path   string
	reader host.DirReader
}

// Return next entry, nil if no more entries
func (src *source) next(h host.Host) (os.FileInfo, error) {
	if src.reader == nil {
		reader, err := host.OpenDir(h, src.path)
		if err != nil {
			return nil, host.Error(err, "readdir", src.path)
		}
		src.reader = reader
	}
	info, err := src.reader.Next()
	if err != nil {
		src.reader.Close()
		if err == io.EOF {
			return nil, nil
		}
		return nil, host.Error(err, "readdir", src.path)
	}
	return info, nil
}

// Open folder name in every module folder, keep order
func openDirs(h host.Host, sources []*source, name string) []*source {
	var dirs []*source
	for _, src := range sources {
		folderPath := path.Join(src.path, name)
		if info, err := h.Lstat(folderPath); err == nil && info.IsDir() {
			dirs = append(dirs, &source{path: folderPath})
		}
	}
	return dirs
}

// Iterate merged entries of one folder level.
//
// Last module and last virtual folder have highest priority, modules entries always win virtual entries.
// Iterator consume sources and cannot be restarted.
type Iterator struct {
	host    host.Host
	replace string
	modules []*source
	customs []*vcursor
	seen    map[string]bool
}

func newIterator(h host.Host, replace string, modules []*source, customs []*VNode) *Iterator {
	return &Iterator{
		host:    h,
		replace: replace,
		modules: modules,
		customs: newCursors(customs),
		seen:    map[string]bool{},
	}
}

// Return next merged entry, io.EOF if no more entries
func (it *Iterator) Next() (Entry, error) {
	for len(it.modules) > 0 {
		src := it.modules[len(it.modules)-1]
		info, err := src.next(it.host)
		if err != nil {
			return Entry{}, err
		} else if info == nil {
			it.modules[len(it.modules)-1] = nil
			it.modules = it.modules[:len(it.modules)-1]
			continue
		}

		entry, ok, err := it.moduleEntry(src, info)
		if err != nil {
			return Entry{}, err
		} else if ok {
			return entry, nil
		}
	}

	for len(it.customs) > 0 {
		cursor := it.customs[len(it.customs)-1]
		name, node, ok := cursor.next()
		if !ok {
			it.customs[len(it.customs)-1] = nil
			it.customs = it.customs[:len(it.customs)-1]
			continue
		}

		if entry, ok := it.virtualEntry(cursor.node, name, node); ok {
			return entry, nil
		}
	}

	return Entry{}, io.EOF
}

func (it *Iterator) virtualDirs() []*VNode {
	dirs := make([]*VNode, len(it.customs))
	for index, cursor := range it.customs {
		dirs[index] = cursor.node
	}
	return dirs
}

func (it *Iterator) moduleEntry(src *source, info os.FileInfo) (Entry, bool, error) {
	name := info.Name()
	entryPath := path.Join(src.path, name)
	if name == it.replace && !info.IsDir() {
		if it.seen[name] {
			return Entry{}, false, nil
		}
		it.seen[name] = true
		return Entry{Name: name, Kind: KindReplace}, true, nil
	} else if it.seen[name] {
		if !info.IsDir() {
			log.Warnf("Duplicate entry: %s", entryPath)
		}
		return Entry{}, false, nil
	}
	it.seen[name] = true

	switch {
	case info.IsDir():
		return Entry{
			Name: name,
			Kind: KindDir,
			Dir:  newIterator(it.host, it.replace, openDirs(it.host, it.modules, name), openVirtual(it.virtualDirs(), name)),
		}, true, nil
	case it.host.IsWhiteout(info):
		return Entry{Name: name, Kind: KindFile}, true, nil
	case info.Mode()&os.ModeSymlink != 0:
		target, err := it.host.Readlink(entryPath)
		if err != nil {
			return Entry{}, false, host.Error(err, "readlink", entryPath)
		}
		return Entry{Name: name, Kind: KindFile, Source: target, Symlink: true}, true, nil
	default:
		return Entry{Name: name, Kind: KindFile, Source: entryPath}, true, nil
	}
}

func (it *Iterator) virtualEntry(dir *VNode, name string, node *VNode) (Entry, bool) {
	if it.seen[name] {
		delete(dir.Children, name)
		if !node.IsDir() {
			log.Errorf("Duplicate entry: %s", name)
		}
		return Entry{}, false
	}
	it.seen[name] = true

	if node.IsDir() {
		return Entry{
			Name: name,
			Kind: KindDir,
			Dir:  newIterator(it.host, it.replace, nil, openVirtual(it.virtualDirs(), name)),
		}, true
	}
	delete(dir.Children, name)
	return Entry{Name: name, Kind: KindFile, Source: node.Target, Symlink: node.Symlink}, true
}
