//go:build !unix && !windows

package loader

import (
	"errors"
	"os"
)

var errMmapUnsupported = errors.New("memory mapping is not supported on this platform")

func mmapFile(*os.File, int64) ([]byte, error) {
	return nil, errMmapUnsupported
}

func munmapFile([]byte) error {
	return errMmapUnsupported
}
