package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// manifestFilename is the only manifest name cargo accepts for --manifest-path.
const manifestFilename = "Cargo.toml"

// ValidatePattern checks a --package or --dependency value.
// Empty patterns are allowed and mean "no filter".
func ValidatePattern(flag, pattern string) error {
	if len(pattern) > 256 {
		return New(ErrCodeInvalidInput, "%s pattern too long (max 256 characters)", flag)
	}
	for _, r := range pattern {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s pattern contains invalid control characters", flag)
		}
	}
	return nil
}

// ValidateManifestPath checks a --manifest-path value before it is handed to
// cargo. An empty path is allowed and means "let cargo discover the workspace".
func ValidateManifestPath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "manifest path contains a null byte")
	}
	if filepath.Base(path) != manifestFilename {
		return New(ErrCodeInvalidPath, "manifest path must point to a %s file, got %q", manifestFilename, filepath.Base(path))
	}
	return nil
}
