package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptUpload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{"jpeg media type", "image/jpeg", "photo.jpg", true},
		{"jpeg with params", "image/jpeg; charset=binary", "photo", true},
		{"jpg alias", "image/jpg", "", true},
		{"progressive jpeg", "image/pjpeg", "x.bin", true},
		{"upper case", "IMAGE/JPEG", "photo.JPG", true},
		{"extension suffix type", "application/x.jpg", "photo", true},
		{"png media type", "image/png", "photo.png", false},
		{"png declared as jpeg name", "image/png", "photo.jpg", false},
		{"octet-stream jpg", "application/octet-stream", "photo.jpg", true},
		{"octet-stream jpeg upper", "application/octet-stream", "PHOTO.JPEG", true},
		{"octet-stream png", "application/octet-stream", "photo.png", false},
		{"missing type jpg", "", "test.jpg", true},
		{"missing type no ext", "", "test", false},
		{"garbage type", "not a media type;;", "photo.jpg", false},
		{"gif", "image/gif", "anim.gif", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AcceptUpload(tt.contentType, tt.filename))
		})
	}
}
