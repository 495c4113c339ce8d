package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leca/image-store/internal/api"
	"github.com/leca/image-store/internal/imageproc"
	"github.com/leca/image-store/internal/model"
	"github.com/leca/image-store/internal/policy"
	"github.com/leca/image-store/internal/store"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files.
const multipartMemory = 10 << 20

// parseID reads the {id} URL parameter. Anything that is not a non-negative
// integer cannot name a record.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// ListImages handles GET /images.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.Store.List()
	if err != nil {
		api.Logger(r.Context()).Error("list images failed", "error", err)
		api.InternalError(w, "failed to list images")
		return
	}
	if images == nil {
		images = []model.ImageSummary{}
	}
	api.WriteJSON(w, http.StatusOK, images)
}

// GetImage handles GET /images/{id} -- serves the stored bytes, or a resized
// variant when width, height or fit are given.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		api.NotFound(w, "image not found")
		return
	}

	img, found, err := h.Store.Get(id)
	if err != nil {
		api.Logger(r.Context()).Error("get image failed", "image_id", id, "error", err)
		api.InternalError(w, "failed to get image")
		return
	}
	if !found {
		api.NotFound(w, "image not found")
		return
	}

	opts, transform, err := imageproc.ParseOptions(r.URL.Query())
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	body, contentType := img.Data, "image/jpeg"
	if transform {
		out, format, err := imageproc.Transform(img.Data, opts)
		if err != nil {
			api.Logger(r.Context()).Warn("transform image failed", "image_id", id, "error", err)
			api.UnprocessableEntity(w, "image cannot be transformed: "+err.Error())
			return
		}
		body, contentType = out, imageproc.ContentType(format)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		api.Logger(r.Context()).Error("GetImage: failed to write response", "error", err)
	}
}

// DeleteImage handles DELETE /images/{id}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		api.NotFound(w, "image not found")
		return
	}

	removed, err := h.Store.Delete(id)
	if err != nil {
		api.Logger(r.Context()).Error("delete image failed", "image_id", id, "error", err)
		api.InternalError(w, "failed to delete image")
		return
	}
	if !removed {
		api.NotFound(w, "image not found")
		return
	}

	api.Logger(r.Context()).Info("image deleted", "image_id", id)
	w.WriteHeader(http.StatusOK)
}

// UploadImage handles POST /images -- multipart upload in the "file" field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger := api.Logger(r.Context())

	body := &bodyReader{r: http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes)}
	r.Body = body
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			api.TooLarge(w, "upload exceeds the maximum allowed size")
		case body.err != nil || errors.Is(err, io.ErrUnexpectedEOF):
			logger.Error("read upload failed", "error", err)
			api.InternalError(w, "failed to read upload")
		default:
			api.BadRequest(w, "invalid multipart form: "+err.Error())
		}
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.BadRequest(w, "missing required field: file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !policy.AcceptUpload(contentType, header.Filename) {
		api.UnsupportedMediaType(w, "only JPEG images are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("read upload failed", "filename", header.Filename, "error", err)
		api.InternalError(w, "failed to read upload")
		return
	}

	id, err := h.Store.Add(header.Filename, data)
	if errors.Is(err, store.ErrEmptyData) {
		api.BadRequest(w, "uploaded file is empty")
		return
	}
	if err != nil {
		logger.Error("add image failed", "filename", header.Filename, "error", err)
		api.InternalError(w, "failed to store image")
		return
	}

	logger.Info("image uploaded", "image_id", id, "filename", header.Filename, "bytes", len(data))
	w.Header().Set("Location", "/images/"+strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusOK)
}

// bodyReader remembers the first error the request body returned, so a
// failed read of the payload can be told apart from a malformed form.
type bodyReader struct {
	r   io.ReadCloser
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && err != io.EOF && b.err == nil {
		b.err = err
	}
	return n, err
}

func (b *bodyReader) Close() error {
	return b.r.Close()
}
