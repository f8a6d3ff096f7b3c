package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/formloop/formloop-services/api/internal/forms/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger  *log.Logger
	entries application.EntryQueryService
	forms   application.FormRepository
}

// Config provides dependencies for Handler.
type Config struct {
	Logger  *log.Logger
	Entries application.EntryQueryService
	Forms   application.FormRepository
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:  cfg.Logger,
		entries: cfg.Entries,
		forms:   cfg.Forms,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/entries", h.entryListHandler())
	r.Get("/entries/{id}", h.entryDetailHandler())
}
