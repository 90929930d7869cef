package overlayfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	root := &Dir{Children: map[string]Node{
		"app": &Dir{FullyReplaced: true, Children: map[string]Node{
			"Test.apk": &File{Source: "/modules/a/system/app/Test.apk"},
		}},
		"bin": &Dir{Children: map[string]Node{
			"su":  &File{Source: "./magisk", Symlink: true},
			"foo": &File{},
		}},
	}}
	root.ExistsUnmodified = true

	var out strings.Builder
	require.NoError(t, Dump(&out, root, "/system"))
	assert.Equal(t, strings.Join([]string{
		"d /system unmodified",
		"d /system/app replace",
		"f /system/app/Test.apk <- /modules/a/system/app/Test.apk",
		"d /system/bin",
		"x /system/bin/foo",
		"l /system/bin/su -> ./magisk",
		"",
	}, "\n"), out.String())
}
