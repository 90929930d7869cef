// Merge modules folders and virtual entries in one folder view, without read files content
package mergefs

import (
	"path"

	log "github.com/sirupsen/logrus"
	"sirherobrine23.com.br/go-bds/modmount/config"
	"sirherobrine23.com.br/go-bds/modmount/host"
)

// Modules and virtual folders eligible to merge
type List struct {
	host    host.Host
	config  *config.Config
	modules []*source
	customs []*VNode
}

// Open modules from config modules folder in priority order, last module is highest priority.
//
// Modules without config.Subtree folder or with config.SkipMarker are ignored
func NewList(h host.Host, cfg *config.Config, modules []string) *List {
	list := &List{host: h, config: cfg}
	for _, name := range modules {
		root := path.Join(cfg.ModulesPath(), name)
		if info, err := h.Stat(root); err != nil || !info.IsDir() {
			log.Debugf("%s: module not found", name)
			continue
		} else if host.Exists(h, path.Join(root, cfg.SkipMarker)) || !host.Exists(h, path.Join(root, cfg.Subtree)) {
			continue
		}
		log.Infof("%s: loading mount files", name)
		list.modules = append(list.modules, &source{path: root})
	}
	return list
}

// Modules roots opened
func (list *List) Modules() []string {
	roots := make([]string, len(list.modules))
	for index, src := range list.modules {
		roots[index] = src.path
	}
	return roots
}

// Add virtual folder with highest priority over previous virtual folders
func (list *List) Inject(root *VNode) { list.customs = append(list.customs, root) }

// Redirect library file name in lib and lib64 folders to staged binaries,
// only if architecture loader exists in system
func (list *List) InjectLibrary(lib string) {
	root := NewVDir()
	system := list.config.RootPath()
	if list.config.Is64Bit {
		if host.Exists(list.host, path.Join(system, "bin/linker")) {
			root.Insert(path.Join(system, "lib", lib), path.Join(list.config.Tmp, "magisk32"), false)
		}
		if host.Exists(list.host, path.Join(system, "bin/linker64")) {
			root.Insert(path.Join(system, "lib64", lib), path.Join(list.config.Tmp, "magisk"), false)
		}
	} else if host.Exists(list.host, path.Join(system, "bin/linker")) {
		root.Insert(path.Join(system, "lib", lib), path.Join(list.config.Tmp, "magisk"), false)
	}
	list.Inject(root)
}

// Add config binaries in folder, files point to staged binaries in config.Tmp
func (list *List) InjectBinaries(folder string) {
	root := NewVDir()
	for _, bin := range list.config.Binaries {
		target := bin.Target
		if !bin.Symlink {
			target = path.Join(list.config.Tmp, bin.Target)
		}
		root.Insert(path.Join(folder, bin.Name), target, bin.Symlink)
	}
	list.Inject(root)
}

// Return iterator to top folder name, "system" for example
func (list *List) Iter(name string) *Iterator {
	return newIterator(list.host, list.config.ReplaceMarker, openDirs(list.host, list.modules, name), openVirtual(list.customs, name))
}
