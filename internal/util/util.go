package util

import (
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/logger"
)

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// RemoveAllLogged removes path and everything below it. A failure is logged
// with the path and OS error and reported as false, never returned.
func RemoveAllLogged(path string) bool {
	if err := os.RemoveAll(path); err != nil {
		logger.Warn("Failed to remove directory", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// RemoveFileLogged removes a single file if present. Missing files are not an error.
func RemoveFileLogged(path string) bool {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return true
	}
	logger.Warn("Failed to remove file", zap.String("path", path), zap.Error(err))
	return false
}
