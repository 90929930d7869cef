package host

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Entries read per readdir call
const dirBatch = 64

// Real system root
type Local struct {
	billy.Filesystem
}

// Return host in system root "/"
func NewLocal() *Local { return &Local{Filesystem: osfs.New("/")} }

// Read directory in batches of dirBatch entries
func (*Local) OpenDir(name string) (DirReader, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &fileReader{file: file}, nil
}

type fileReader struct {
	file    *os.File
	entries []os.FileInfo
}

func (reader *fileReader) Next() (os.FileInfo, error) {
	if len(reader.entries) == 0 {
		entries, err := reader.file.Readdir(dirBatch)
		if len(entries) == 0 {
			if err == nil {
				err = io.EOF
			}
			return nil, err
		}
		reader.entries = entries
	}
	info := reader.entries[0]
	reader.entries = reader.entries[1:]
	return info, nil
}

func (reader *fileReader) Close() error { return reader.file.Close() }
