package mergefs

import (
	"maps"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Virtual entry not backed by module folder, folder if Children not nil
type VNode struct {
	Children map[string]*VNode
	Target   string // File to mount or symlink destination
	Symlink  bool
}

// Return new empty virtual folder
func NewVDir() *VNode { return &VNode{Children: map[string]*VNode{}} }

func (node *VNode) IsDir() bool { return node.Children != nil }

// Insert file or symlink in slash separated path, leading slashs ignored.
//
// Paths with conflict with existing entries are logged and ignored, returning false
func (node *VNode) Insert(name, target string, symlink bool) bool {
	if !node.IsDir() {
		return false
	}
	dir, rest, found := strings.Cut(name, "/")
	if !found {
		if name == "" {
			log.Warnf("Invalid entry: %q", target)
			return false
		} else if _, exist := node.Children[name]; exist {
			log.Warnf("Duplicate entry: %s", name)
			return false
		}
		node.Children[name] = &VNode{Target: target, Symlink: symlink}
		return true
	} else if dir == "" {
		return node.Insert(rest, target, symlink)
	}

	child, exist := node.Children[dir]
	if !exist {
		child = NewVDir()
		node.Children[dir] = child
	} else if !child.IsDir() {
		log.Warnf("Duplicate entry: %s", dir)
		return false
	}
	return child.Insert(rest, target, symlink)
}

// Virtual folder children in name order
type vcursor struct {
	node  *VNode
	names []string
}

func newCursors(nodes []*VNode) []*vcursor {
	cursors := make([]*vcursor, len(nodes))
	for index, node := range nodes {
		cursors[index] = &vcursor{node: node, names: slices.Sorted(maps.Keys(node.Children))}
	}
	return cursors
}

// Next child, children removed from folder after cursor created are skipped
func (cursor *vcursor) next() (string, *VNode, bool) {
	for len(cursor.names) > 0 {
		name := cursor.names[0]
		cursor.names = cursor.names[1:]
		if child, exist := cursor.node.Children[name]; exist {
			return name, child, true
		}
	}
	return "", nil, false
}

// Remove folder name from every virtual folder, returning removed folders in same order
func openVirtual(nodes []*VNode, name string) []*VNode {
	var dirs []*VNode
	for _, node := range nodes {
		if child, exist := node.Children[name]; exist && child.IsDir() {
			delete(node.Children, name)
			dirs = append(dirs, child)
		}
	}
	return dirs
}
