package utils

import (
	"path"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

const maxFilenameLength = 200

// SanitizeFilename reduces an uploaded file name to a safe base name. Any
// directory part is dropped, invalid characters are removed and the result
// is capped at 200 bytes with the extension kept. fallback is returned when
// nothing usable remains.
func SanitizeFilename(name, fallback string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = ""
	}

	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = strings.Trim(strings.TrimSpace(name), ".")

	if len(name) > maxFilenameLength {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = strings.TrimSpace(name[:maxFilenameLength-len(ext)]) + ext
	}

	if name == "" {
		return fallback
	}
	return name
}
