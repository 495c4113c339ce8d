package handler

import (
	"net/http"

	"github.com/leca/image-store/internal/api"
)

// GetStats handles GET /stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.Store.Count()
	if err != nil {
		api.Logger(r.Context()).Error("count images failed", "error", err)
		api.InternalError(w, "failed to count images")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}
