// All files related functions
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/google/uuid"
)

// ScanImages returns the names of the image files directly inside dir,
// sorted lexicographically. An empty result is not an error.
//
// NOTE: plain string order, so frame1, frame10, frame2 stay in that order.
// Pad the numbers in the sequence if that matters.
func ScanImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir %s: %w", dir, err)
	}
	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsImageName(entry.Name()) {
			images = append(images, entry.Name())
		}
	}
	sort.Strings(images)
	return images, nil
}

// IsImageName reports whether name carries one of the qualifying extensions.
func IsImageName(name string) bool {
	for _, ext := range cfg.ImageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// TempVideoPath returns a per-job intermediate file path inside workDir.
func TempVideoPath(workDir string, jobID uuid.UUID, codec string) string {
	return filepath.Join(workDir, cfg.TempVideoPrefix+jobID.String()+cfg.IntermediateExt(codec))
}

// EnsureDir creates dir if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}

// RemoveIfExists deletes path, ignoring a missing file.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
