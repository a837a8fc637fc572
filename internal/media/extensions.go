package media

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ExtensionSet is the set of recognized image extensions, lowercase with a
// leading dot.
type ExtensionSet map[string]struct{}

func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

func (s ExtensionSet) Has(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}

// Alternative spellings of the same format.
var extensionSynonyms = map[string]string{
	".jpg":  ".jpeg",
	".jpeg": ".jpg",
	".tif":  ".tiff",
	".tiff": ".tif",
}

// match returns ext, or its configured synonym, when the set recognizes it.
func (s ExtensionSet) match(ext string) (string, bool) {
	ext = strings.ToLower(ext)
	if ext == "" {
		return "", false
	}
	if s.Has(ext) {
		return ext, true
	}
	if alt, ok := extensionSynonyms[ext]; ok && s.Has(alt) {
		return alt, true
	}
	return "", false
}

// OfName returns the lowercase extension of name when it is recognized.
func (s ExtensionSet) OfName(name string) (string, bool) {
	return s.match(path.Ext(name))
}

// Common spellings that mimetype does not know as canonical names.
var contentTypeAliases = map[string]string{
	"image/jpg":      ".jpg",
	"image/pjpeg":    ".jpg",
	"image/x-png":    ".png",
	"image/x-ms-bmp": ".bmp",
	"image/svg":      ".svg",
}

// OfContentType maps a declared Content-Type header to a recognized extension.
func (s ExtensionSet) OfContentType(contentType string) (string, bool) {
	if contentType == "" {
		return "", false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}

	ext, ok := contentTypeAliases[mediaType]
	if !ok {
		m := mimetype.Lookup(mediaType)
		if m == nil {
			return "", false
		}
		ext = m.Extension()
	}
	return s.match(ext)
}

// OfContent sniffs the payload.
func (s ExtensionSet) OfContent(data []byte) (string, bool) {
	return s.match(mimetype.Detect(data).Extension())
}

// ContentTypeFor returns the MIME type to store an object with.
func ContentTypeFor(ext string, data []byte) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}
