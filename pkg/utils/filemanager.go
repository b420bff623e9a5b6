// =============================================================================
// Excel API Generator - File Manager Utility
// =============================================================================
//
// This module provides the file handling shared by the artifact writers:
//   - Directory management (parent directories are created on demand)
//   - Atomic writes (temp file in the target directory, then rename)
//   - Output file naming with timestamp and UUID placeholders
//
// A failed write never leaves a partially written artifact at the target
// path: either the old file (if any) or the complete new file is there.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE WRITING
// =============================================================================

// WriteFileAtomic writes data to path with the given permissions.
//
// PARAMETERS:
//   - path: The destination file. Parent directories are created.
//   - data: The complete file contents.
//   - perm: The file mode of the final file (e.g. 0644, 0755).
//
// RETURNS:
//   - An error if the directory, temp file, or rename fails. The temp file
//     is removed on failure.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write %s: %w", path, err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync %s: %w", path, err))
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(fmt.Errorf("failed to set permissions on %s: %w", path, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             plus any key of params, e.g. {stem} or {ext}.
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{stem}_{timestamp}_{uuid}.{ext}"
//   params: {"stem": "fields", "ext": "sh"}
//   output: "fields_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.sh"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	pairs := []string{
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(format)
}

// OutputPath joins dir with a generated name for source.
//
// PARAMETERS:
//   - dir: The output directory.
//   - format: The name format (see GenerateOutputFileName).
//   - source: The input file; its stem fills {stem}.
//   - ext: The artifact extension without the dot; fills {ext}.
func OutputPath(dir, format, source, ext string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := GenerateOutputFileName(format, map[string]string{"stem": stem, "ext": ext})
	return filepath.Join(dir, name)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
