// Filesystem and mount primitives used to merge modules and realize merged tree
//
// for Linux use golang.org/x/sys/unix on real system root
//
// for tests and dry runs use Memory, a in memory filesystem recording mounts
package host

import (
	"errors"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
)

var (
	ErrNotAvaible error = errors.New("bind mount not avaible in current platform") // Current platform cannot bind mount or set attributes
)

// File attributes cloned between real files and staging files
type Attr struct {
	Mode    os.FileMode // Permission bits with setuid, setgid and sticky
	UID     int         // Owner user
	GID     int         // Owner group
	Context string      // SELinux context, blank if not avaible
}

// Host primitives, all paths are absolute
//
//   - Attr and SetAttr never follow symlinks
//   - BindMount make source visible in target, recursive
type Host interface {
	billy.Filesystem
	Attr(name string) (*Attr, error)       // Get attributes without follow symlink
	SetAttr(name string, attr *Attr) error // Set attributes, mode ignored for symlinks
	BindMount(source, target string) error // Mount source in target
	IsWhiteout(info os.FileInfo) bool      // Entry is deletion marker
}

// Copy attributes from src to dst
func CloneAttr(h Host, src, dst string) error {
	attr, err := h.Attr(src)
	if err != nil {
		return err
	}
	return h.SetAttr(dst, attr)
}

// Path exists, follow symlinks
func Exists(h Host, name string) bool {
	_, err := h.Stat(name)
	return err == nil
}

// Closest path to name with exists in host, "/" if none
func NearestExisting(h Host, name string) string {
	name = path.Clean(name)
	for name != "/" && !Exists(h, name) {
		name = path.Dir(name)
	}
	return name
}

// Create empty file to mount another file on top
func CreatePlaceholder(h Host, name string) error {
	file, err := h.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0)
	if err != nil {
		return err
	}
	return file.Close()
}

func isCharDevice(info os.FileInfo) bool {
	return info != nil && info.Mode()&os.ModeCharDevice != 0
}
