package handler

import (
	"github.com/leca/image-store/internal/config"
	"github.com/leca/image-store/internal/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store  store.Store
	Config *config.Config
}
