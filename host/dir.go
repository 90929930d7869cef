package host

import (
	"io"
	"os"
)

// Directory entries read one by one
type DirReader interface {
	Next() (os.FileInfo, error) // Next entry without follow symlinks, io.EOF after last entry
	Close() error
}

// Host able to read directory without load all entries
type DirOpener interface {
	OpenDir(name string) (DirReader, error)
}

// Open directory reader, if host is not DirOpener all entries are read at once
func OpenDir(h Host, name string) (DirReader, error) {
	if opener, ok := h.(DirOpener); ok {
		return opener.OpenDir(name)
	}
	entries, err := h.ReadDir(name)
	if err != nil {
		return nil, err
	}
	return &sliceReader{entries: entries}, nil
}

type sliceReader struct {
	entries []os.FileInfo
}

func (reader *sliceReader) Next() (os.FileInfo, error) {
	if len(reader.entries) == 0 {
		return nil, io.EOF
	}
	info := reader.entries[0]
	reader.entries[0] = nil
	reader.entries = reader.entries[1:]
	return info, nil
}

func (reader *sliceReader) Close() error {
	reader.entries = nil
	return nil
}
