package host

import (
	"io/fs"
	"os"
	"path"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// Bind mount recorded by Memory
type Mount struct {
	Source string
	Target string
}

// In memory host, mounts are only recorded
type Memory struct {
	billy.Filesystem

	attrs     map[string]Attr
	whiteouts map[string]bool
	mounts    []Mount
	failMount map[string]bool
	failAttr  map[string]bool
}

// Return new empty in memory host
func NewMemory() *Memory {
	return &Memory{
		Filesystem: memfs.New(),
		attrs:      map[string]Attr{},
		whiteouts:  map[string]bool{},
		failMount:  map[string]bool{},
		failAttr:   map[string]bool{},
	}
}

type whiteoutInfo struct{ os.FileInfo }

func (whiteoutInfo) Mode() os.FileMode { return os.ModeDevice | os.ModeCharDevice }
func (whiteoutInfo) IsDir() bool       { return false }
func (whiteoutInfo) Size() int64       { return 0 }

// Create deletion marker in name
func (m *Memory) Whiteout(name string) error {
	if err := CreatePlaceholder(m, name); err != nil {
		return err
	}
	m.whiteouts[path.Clean(name)] = true
	return nil
}

// Make BindMount fail when mount in target
func (m *Memory) FailMount(target string) { m.failMount[path.Clean(target)] = true }

// Make SetAttr fail on name
func (m *Memory) FailSetAttr(name string) { m.failAttr[path.Clean(name)] = true }

// Bind mounts in call order
func (m *Memory) Mounts() []Mount { return slices.Clone(m.mounts) }

// Return source mounted in target, blank if not mounted
func (m *Memory) MountedAt(target string) string {
	target = path.Clean(target)
	for _, mount := range slices.Backward(m.mounts) {
		if mount.Target == target {
			return mount.Source
		}
	}
	return ""
}

func (m *Memory) Lstat(name string) (os.FileInfo, error) {
	info, err := m.Filesystem.Lstat(name)
	if err == nil && m.whiteouts[path.Clean(name)] {
		info = whiteoutInfo{info}
	}
	return info, err
}

func (m *Memory) ReadDir(name string) ([]os.FileInfo, error) {
	entries, err := m.Filesystem.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for index, entry := range entries {
		if m.whiteouts[path.Join(name, entry.Name())] {
			entries[index] = whiteoutInfo{entry}
		}
	}
	return entries, nil
}

func (m *Memory) Attr(name string) (*Attr, error) {
	info, err := m.Lstat(name)
	if err != nil {
		return nil, err
	}
	if attr, ok := m.attrs[path.Clean(name)]; ok {
		return &attr, nil
	}
	return &Attr{Mode: info.Mode() & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky)}, nil
}

func (m *Memory) SetAttr(name string, attr *Attr) error {
	name = path.Clean(name)
	if m.failAttr[name] {
		return &fs.PathError{Op: "setattr", Path: name, Err: fs.ErrPermission}
	} else if _, err := m.Lstat(name); err != nil {
		return err
	}
	m.attrs[name] = *attr
	return nil
}

func (m *Memory) BindMount(source, target string) error {
	source, target = path.Clean(source), path.Clean(target)
	if m.failMount[target] {
		return &os.LinkError{Op: "mount", Old: source, New: target, Err: fs.ErrPermission}
	} else if _, err := m.Lstat(source); err != nil {
		return &os.LinkError{Op: "mount", Old: source, New: target, Err: err}
	} else if _, err := m.Lstat(target); err != nil {
		return &os.LinkError{Op: "mount", Old: source, New: target, Err: err}
	}
	m.mounts = append(m.mounts, Mount{Source: source, Target: target})
	return nil
}

func (m *Memory) IsWhiteout(info os.FileInfo) bool { return isCharDevice(info) }
