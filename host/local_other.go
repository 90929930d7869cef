//go:build !linux

package host

import "os"

// Current platform not supported, returning ErrNotAvaible
func (*Local) Attr(string) (*Attr, error) { return nil, ErrNotAvaible }

// Current platform not supported, returning ErrNotAvaible
func (*Local) SetAttr(string, *Attr) error { return ErrNotAvaible }

// Current platform not supported, returning ErrNotAvaible
func (*Local) BindMount(string, string) error { return ErrNotAvaible }

func (*Local) IsWhiteout(info os.FileInfo) bool { return isCharDevice(info) }
