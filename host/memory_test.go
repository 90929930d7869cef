package host

import (
	"io"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWhiteout(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.MkdirAll("/modules/a/system/bin", 0755))
	require.NoError(t, util.WriteFile(mem, "/modules/a/system/bin/keep", []byte("keep"), 0644))
	require.NoError(t, mem.Whiteout("/modules/a/system/bin/gone"))

	info, err := mem.Lstat("/modules/a/system/bin/gone")
	require.NoError(t, err)
	assert.True(t, mem.IsWhiteout(info))

	entries, err := mem.ReadDir("/modules/a/system/bin")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "gone", entries[0].Name())
	assert.True(t, mem.IsWhiteout(entries[0]))
	assert.False(t, mem.IsWhiteout(entries[1]))
}

func TestMemoryAttr(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, util.WriteFile(mem, "/system/bin/sh", nil, 0755))
	require.NoError(t, util.WriteFile(mem, "/worker/sh", nil, 0))

	attr, err := mem.Attr("/system/bin/sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), attr.Mode)

	require.NoError(t, mem.SetAttr("/system/bin/sh", &Attr{Mode: 0755, UID: 0, GID: 2000, Context: "u:object_r:system_file:s0"}))
	require.NoError(t, CloneAttr(mem, "/system/bin/sh", "/worker/sh"))
	attr, err = mem.Attr("/worker/sh")
	require.NoError(t, err)
	assert.Equal(t, 2000, attr.GID)
	assert.Equal(t, "u:object_r:system_file:s0", attr.Context)

	_, err = mem.Attr("/not/exist")
	assert.True(t, os.IsNotExist(err))

	mem.FailSetAttr("/worker/sh")
	assert.Error(t, CloneAttr(mem, "/system/bin/sh", "/worker/sh"))
}

func TestMemoryBindMount(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, util.WriteFile(mem, "/modules/a/system/bin/foo", []byte("foo"), 0644))
	require.NoError(t, CreatePlaceholder(mem, "/system/bin/foo"))

	require.NoError(t, mem.BindMount("/modules/a/system/bin/foo", "/system/bin/foo"))
	assert.Equal(t, "/modules/a/system/bin/foo", mem.MountedAt("/system/bin/foo"))
	assert.Equal(t, []Mount{{Source: "/modules/a/system/bin/foo", Target: "/system/bin/foo"}}, mem.Mounts())

	assert.Error(t, mem.BindMount("/modules/a/system/bin/foo", "/system/bin/bar"))
	assert.Error(t, mem.BindMount("/modules/a/system/bin/bar", "/system/bin/foo"))

	mem.FailMount("/system/bin/foo")
	assert.Error(t, mem.BindMount("/modules/a/system/bin/foo", "/system/bin/foo"))
	assert.Len(t, mem.Mounts(), 1)
	assert.Empty(t, mem.MountedAt("/system/bin/bar"))
}

func TestNearestExisting(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.MkdirAll("/system/app", 0755))
	assert.Equal(t, "/system/app", NearestExisting(mem, "/system/app"))
	assert.Equal(t, "/system", NearestExisting(mem, "/system/bin/foo"))
	assert.Equal(t, "/", NearestExisting(mem, "/vendor/lib"))
	assert.True(t, Exists(mem, "/system"))
	assert.False(t, Exists(mem, "/vendor"))
}

func TestError(t *testing.T) {
	assert.NoError(t, Error(nil, "mount", "/system"))

	_, err := NewMemory().Lstat("/system")
	err = Error(err, "lstat", "/system")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	err = Error(os.ErrPermission, "mount", "/system")
	assert.Equal(t, errors.CodeExecutionFailed, errors.GetCode(err))
	var platformErr errors.PlatformError
	require.True(t, errors.As(err, &platformErr))
	assert.Equal(t, "/system", platformErr.Context()["path"])
	assert.Equal(t, "mount", platformErr.Context()["op"])
}

func TestMemoryOpenDir(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, util.WriteFile(mem, "/system/bin/sh", nil, 0755))
	require.NoError(t, mem.Whiteout("/system/bin/foo"))

	reader, err := OpenDir(mem, "/system/bin")
	require.NoError(t, err)
	defer reader.Close()

	info, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "foo", info.Name())
	assert.True(t, mem.IsWhiteout(info))

	info, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "sh", info.Name())

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)

	_, err = OpenDir(mem, "/vendor")
	assert.Error(t, err)
}
