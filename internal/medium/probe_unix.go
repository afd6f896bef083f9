//go:build linux || darwin || freebsd

package medium

import (
	"golang.org/x/sys/unix"
)

// probe reports block size and free space of the filesystem holding dir.
// This implementation uses Statfs from golang.org/x/sys/unix.
func probe(dir string) (Usage, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Usage{}, err
	}

	return Usage{
		BlockSize: int64(stat.Bsize),                       //nolint:gosec,unconvert // G115: platform-dependent width
		FreeBytes: uint64(stat.Bavail) * uint64(stat.Bsize), //nolint:gosec,unconvert // G115: platform-dependent width
	}, nil
}
