package imageproc

import (
	"fmt"
	"net/url"
	"strconv"
)

// Fit modes accepted by Transform.
const (
	FitScaleDown = "scale-down"
	FitContain   = "contain"
	FitCover     = "cover"
	FitCrop      = "crop"
	FitPad       = "pad"
)

// MaxDimension bounds the requested output size on either axis.
const MaxDimension = 4096

// Options describes a variant requested on delivery.
type Options struct {
	Fit    string
	Width  int
	Height int
}

// ParseOptions reads width, height and fit from query. ok is false when
// none of them is present, meaning the original bytes should be served.
func ParseOptions(query url.Values) (opts Options, ok bool, err error) {
	if !query.Has("width") && !query.Has("height") && !query.Has("fit") {
		return Options{}, false, nil
	}

	opts.Fit = query.Get("fit")
	if opts.Fit == "" {
		opts.Fit = FitScaleDown
	}
	switch opts.Fit {
	case FitScaleDown, FitContain, FitCover, FitCrop, FitPad:
	default:
		return Options{}, false, fmt.Errorf("unknown fit %q", opts.Fit)
	}

	if opts.Width, err = parseDimension(query, "width"); err != nil {
		return Options{}, false, err
	}
	if opts.Height, err = parseDimension(query, "height"); err != nil {
		return Options{}, false, err
	}
	return opts, true, nil
}

func parseDimension(query url.Values, key string) (int, error) {
	v := query.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > MaxDimension {
		return 0, fmt.Errorf("%s must be an integer between 1 and %d", key, MaxDimension)
	}
	return n, nil
}
