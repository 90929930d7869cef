package overlayfs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

// Mount table entry
type MountPoint struct {
	Device string
	Path   string
	Type   string
	Opts   []string // Opts may contain sensitive mount options (like passwords) and MUST be treated as such (e.g. not logged).
	Freq   int
	Pass   int
}

type MountPoints []*MountPoint

// Last mount in target, nil if not mounted
func (mounts MountPoints) Get(target string) *MountPoint {
	target = path.Clean(target)
	for index := len(mounts) - 1; index >= 0; index-- {
		if mounts[index].Path == target {
			return mounts[index]
		}
	}
	return nil
}

func (mounts MountPoints) Exist(target string) bool {
	return mounts.Get(target) != nil
}

// Mounts in folder or inside it
func (mounts MountPoints) Under(folder string) MountPoints {
	folder = path.Clean(folder)
	var under MountPoints
	for _, mount := range mounts {
		if mount.Path == folder || strings.HasPrefix(mount.Path, folder+"/") || folder == "/" {
			under = append(under, mount)
		}
	}
	return under
}

// Read current process mount table from /proc/mounts
func ReadMounts() (MountPoints, error) {
	file, err := os.Open("/proc/mounts")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseMounts(file)
}

// Parse fstab formated mount table, one mount per line with 6 fields
func ParseMounts(r io.Reader) (MountPoints, error) {
	mounts := MountPoints{}
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		} else if len(fields) != 6 {
			// Line not logged, options may have passwords
			return nil, fmt.Errorf("wrong number of fields (expected 6, got %d)", len(fields))
		}

		freq, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, err
		}
		pass, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, err
		}

		mounts = append(mounts, &MountPoint{
			Device: fields[0],
			Path:   unescapeMountPath(fields[1]),
			Type:   fields[2],
			Opts:   strings.Split(fields[3], ","),
			Freq:   freq,
			Pass:   pass,
		})
	}
	return mounts, scan.Err()
}

// Kernel escape space, tab, newline and backslash as octal
func unescapeMountPath(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var out strings.Builder
	for index := 0; index < len(value); index++ {
		if value[index] == '\\' && index+3 < len(value) {
			if code, err := strconv.ParseUint(value[index+1:index+4], 8, 8); err == nil {
				out.WriteByte(byte(code))
				index += 3
				continue
			}
		}
		out.WriteByte(value[index])
	}
	return out.String()
}
