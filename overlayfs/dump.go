package overlayfs

import (
	"fmt"
	"io"
	"path"
)

// Write merged tree to w, one entry per line:
//
//	d /system/app replace
//	f /system/bin/foo <- /modules/a/system/bin/foo
//	l /system/bin/su -> ./magisk
//	x /system/bin/bar
func Dump(w io.Writer, dir *Dir, root string) error {
	flags := ""
	if dir.FullyReplaced {
		flags += " replace"
	}
	if dir.ExistsUnmodified {
		flags += " unmodified"
	}
	if _, err := fmt.Fprintf(w, "d %s%s\n", root, flags); err != nil {
		return err
	}

	for _, name := range dir.Names() {
		childPath := path.Join(root, name)
		var err error
		switch child := dir.Children[name].(type) {
		case *Dir:
			err = Dump(w, child, childPath)
		case *File:
			switch {
			case child.Deleted():
				_, err = fmt.Fprintf(w, "x %s\n", childPath)
			case child.Symlink:
				_, err = fmt.Fprintf(w, "l %s -> %s\n", childPath, child.Source)
			default:
				_, err = fmt.Fprintf(w, "f %s <- %s\n", childPath, child.Source)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
