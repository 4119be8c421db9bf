// Package validation checks CSV inputs and output locations before the
// pipeline touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize bounds a single uploaded CSV.
const MaxUploadSize = 16 << 20

// FileValidator provides common file validation functions
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateUpload checks an uploaded file's name and size before parsing.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		v.logger.Warn("Rejected upload with unexpected extension",
			slog.String("filename", filename))
		return fmt.Errorf("%s is not a CSV file", filename)
	}
	if size == 0 {
		return fmt.Errorf("%s is empty", filename)
	}
	if size > MaxUploadSize {
		v.logger.Warn("Rejected oversized upload",
			slog.String("filename", filename),
			slog.Int64("size", size))
		return fmt.Errorf("%s exceeds the %d byte upload limit", filename, MaxUploadSize)
	}
	return nil
}

// ValidateInputPath validates that an input file or directory exists.
func (v *FileValidator) ValidateInputPath(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		v.logger.Error("Input path does not exist", slog.String("path", path))
		return fmt.Errorf("input path %s does not exist", path)
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return nil
}

// ValidateOutputDirectory ensures the output directory exists and is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
