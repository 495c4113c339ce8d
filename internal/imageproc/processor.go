package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned when the stored bytes are not an image
// the processor can decode.
var ErrUnsupportedFormat = errors.New("unsupported or unrecognized image format")

const jpegQuality = 85

// signatures lists the leading magic bytes of each recognised format.
var signatures = []struct {
	format string
	magic  []byte
}{
	{"jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"png", []byte("\x89PNG\r\n\x1a\n")},
	{"gif", []byte("GIF8")},
}

// DetectFormat reports the format of data from its leading bytes. It returns
// "jpeg", "png", "gif", "webp" or "" when nothing matches.
func DetectFormat(data []byte) string {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.magic) {
			return sig.format
		}
	}
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "webp"
	}
	return ""
}

// ContentType maps a format returned by DetectFormat to its MIME type.
func ContentType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Transform resizes data according to opts and returns the encoded result
// together with its format. GIFs are passed through untouched.
func Transform(data []byte, opts Options) ([]byte, string, error) {
	format := DetectFormat(data)
	switch format {
	case "gif":
		return data, format, nil
	case "jpeg", "png":
	default:
		return nil, "", ErrUnsupportedFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	img = applyFit(img, opts)

	out, err := encodeImage(img, format)
	if err != nil {
		return nil, "", fmt.Errorf("encoding image: %w", err)
	}
	return out, format, nil
}

// applyFit applies the requested fit mode. A zero dimension keeps the
// original size on that axis.
func applyFit(img image.Image, opts Options) image.Image {
	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()

	targetW := opts.Width
	targetH := opts.Height
	if targetW == 0 {
		targetW = origW
	}
	if targetH == 0 {
		targetH = origH
	}

	switch opts.Fit {
	case FitContain:
		return fitContain(img, targetW, targetH)
	case FitCover:
		return imaging.Fill(img, targetW, targetH, imaging.Center, imaging.Lanczos)
	case FitCrop:
		return imaging.CropCenter(img, targetW, targetH)
	case FitPad:
		fitted := imaging.Fit(img, targetW, targetH, imaging.Lanczos)
		return imaging.PasteCenter(imaging.New(targetW, targetH, image.White), fitted)
	default:
		// scale-down only ever shrinks.
		if origW <= targetW && origH <= targetH {
			return img
		}
		return imaging.Fit(img, targetW, targetH, imaging.Lanczos)
	}
}

// fitContain scales to fit within the target box, enlarging if needed.
func fitContain(img image.Image, targetW, targetH int) image.Image {
	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()

	scale := min(float64(targetW)/float64(origW), float64(targetH)/float64(origH))
	newW := max(int(float64(origW)*scale+0.5), 1)
	newH := max(int(float64(origH)*scale+0.5), 1)

	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// encodeImage writes img back out in the source format. Only the formats
// Transform decodes reach this point.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
