// Package policy holds the request-level checks applied before anything
// reaches the image store.
package policy

import (
	"mime"
	"path/filepath"
	"strings"
)

// acceptedMediaTypes is the allow-list of declared upload types.
var acceptedMediaTypes = map[string]bool{
	"image/jpeg":  true,
	"image/jpg":   true,
	"image/pjpeg": true,
}

var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// AcceptUpload reports whether an upload declared with contentType and
// filename is an accepted JPEG encoding. A generic or missing content type
// defers to the filename extension.
func AcceptUpload(contentType, filename string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" || ct == "application/octet-stream" {
		return acceptedExtensions[strings.ToLower(filepath.Ext(filename))]
	}

	if strings.HasSuffix(ct, ".jpg") || strings.HasSuffix(ct, ".jpeg") {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return acceptedMediaTypes[mediaType]
}
