//go:build linux

package host

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

const selinuxXattr = "security.selinux"

// Get attributes from lstat and SELinux context
func (*Local) Attr(name string) (*Attr, error) {
	var st unix.Stat_t
	if err := unix.Lstat(name, &st); err != nil {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: err}
	}
	attr := &Attr{
		Mode: fromUnixMode(st.Mode),
		UID:  int(st.Uid),
		GID:  int(st.Gid),
	}

	buff := make([]byte, 256)
	if n, err := unix.Lgetxattr(name, selinuxXattr, buff); err == nil && n > 0 {
		attr.Context = string(bytes.TrimRight(buff[:n], "\x00"))
	}
	return attr, nil
}

// Set owner, mode and SELinux context, mode skiped on symlinks
func (*Local) SetAttr(name string, attr *Attr) error {
	var st unix.Stat_t
	if err := unix.Lstat(name, &st); err != nil {
		return &fs.PathError{Op: "lstat", Path: name, Err: err}
	}
	if st.Mode&unix.S_IFMT != unix.S_IFLNK {
		if err := unix.Chmod(name, toUnixMode(attr.Mode)); err != nil {
			return &fs.PathError{Op: "chmod", Path: name, Err: err}
		}
	}
	if err := unix.Lchown(name, attr.UID, attr.GID); err != nil {
		return &fs.PathError{Op: "lchown", Path: name, Err: err}
	}
	if attr.Context != "" {
		if err := unix.Lsetxattr(name, selinuxXattr, []byte(attr.Context), 0); err != nil {
			return &fs.PathError{Op: "lsetxattr", Path: name, Err: err}
		}
	}
	return nil
}

// Mount same `mount --rbind source target`
func (*Local) BindMount(source, target string) error {
	err := unix.Mount(source, target, "", unix.MS_BIND|unix.MS_REC, "")
	if errors.Is(err, syscall.EPERM) {
		err = fs.ErrPermission
	}
	if err != nil {
		return &os.LinkError{Op: "mount", Old: source, New: target, Err: err}
	}
	return nil
}

// Overlay whiteout is character device with device number 0
func (*Local) IsWhiteout(info os.FileInfo) bool {
	if !isCharDevice(info) {
		return false
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Rdev) == 0
	}
	return true
}

func fromUnixMode(mode uint32) os.FileMode {
	perm := os.FileMode(mode & 0o777)
	if mode&unix.S_ISUID != 0 {
		perm |= os.ModeSetuid
	}
	if mode&unix.S_ISGID != 0 {
		perm |= os.ModeSetgid
	}
	if mode&unix.S_ISVTX != 0 {
		perm |= os.ModeSticky
	}
	return perm
}

func toUnixMode(mode os.FileMode) uint32 {
	perm := uint32(mode.Perm())
	if mode&os.ModeSetuid != 0 {
		perm |= unix.S_ISUID
	}
	if mode&os.ModeSetgid != 0 {
		perm |= unix.S_ISGID
	}
	if mode&os.ModeSticky != 0 {
		perm |= unix.S_ISVTX
	}
	return perm
}
