package model

// Image is a stored image record. Records are immutable once created.
type Image struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// ImageSummary is the list projection of an Image, without its bytes.
type ImageSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Summary returns the list projection of img.
func (img Image) Summary() ImageSummary {
	return ImageSummary{ID: img.ID, Name: img.Name}
}
