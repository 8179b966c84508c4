package constants

import "strings"

// ImportExtensions holds the file extensions accepted by the bulk importer.
var ImportExtensions = map[string]struct{}{
	"json": {},
	"yaml": {},
	"yml":  {},
}

// XLSXContentType is the media type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
