//go:build !linux && !darwin && !freebsd

package medium

import (
	"fmt"
	"os"
)

// probe checks that dir exists and is a directory.
// Free space is not reported on this platform.
func probe(dir string) (Usage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Usage{}, err
	}
	if !info.IsDir() {
		return Usage{}, fmt.Errorf("%s is not a directory", dir)
	}
	return Usage{}, nil
}
