package overlayfs

import (
	"maps"
	"slices"
)

// Merged tree node, *Dir or *File
type Node interface {
	realize(mount *mounter, nodePath string, parentStaged bool) error
}

var (
	_ Node = &Dir{}
	_ Node = &File{}
)

// Merged folder
type Dir struct {
	Children         map[string]Node
	ExistsUnmodified bool // Real folder exists and merge not require staging folder
	FullyReplaced    bool // Ignore real folder content, only Children are visible

	changed bool            // Files in this folder require staging
	missing map[string]bool // Children folders not existing in real folder
}

// Merged file, blank Source to delete real file
type File struct {
	Source  string // Module file or symlink destination
	Symlink bool
}

// File is deletion
func (file *File) Deleted() bool { return file.Source == "" }

// Folder level require staging, missing children folders included
func (dir *Dir) dirty() bool { return dir.changed || len(dir.missing) > 0 }

// Children names sorted
func (dir *Dir) Names() []string { return slices.Sorted(maps.Keys(dir.Children)) }

// Remove child folder from tree and return it, nil if not exists or child is file
func (dir *Dir) Extract(name string) *Dir {
	child, ok := dir.Children[name].(*Dir)
	if !ok {
		return nil
	}
	delete(dir.Children, name)
	delete(dir.missing, name)
	return child
}
