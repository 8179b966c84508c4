package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/jobs-tracker/constants"
)

// AllowedExt checks if a file extension is importable (json, yaml, yml).
func AllowedExt(ext string) bool {
	_, ok := constants.ImportExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

func allowedPath(path string) bool {
	return AllowedExt(filepath.Ext(path)) && !IsHidden(path)
}
