package client

import (
	"mime"
	"sort"
	"strings"
)

var extensionTypes = map[string]string{
	"txt":  "text/plain",
	"md":   "text/markdown",
	"html": "text/html",
	"json": "application/json",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
}

// MediaTypeForExtension maps a conversion extension to the Accept type sent
// to the service. Only the fixed table above is supported.
func MediaTypeForExtension(ext string) (string, bool) {
	t, ok := extensionTypes[ext]
	return t, ok
}

// Extensions lists the supported conversion extensions in sorted order.
func Extensions() []string {
	out := make([]string, 0, len(extensionTypes))
	for ext := range extensionTypes {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// baseMediaType strips parameters ("; charset=utf-8") and lowercases.
func baseMediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
		mt = strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

func isText(mt string) bool        { return strings.HasPrefix(mt, "text/") }
func isApplication(mt string) bool { return strings.HasPrefix(mt, "application/") }
func isImage(mt string) bool       { return strings.HasPrefix(mt, "image/") }
