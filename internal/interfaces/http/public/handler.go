package public

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/formloop/formloop-services/api/internal/forms/application"
)

// Handler wires public HTTP endpoints to the submission pipeline.
type Handler struct {
	logger      *log.Logger
	submissions application.SubmissionService
	flashSecret []byte
	flashSecure bool
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *log.Logger
	Submissions application.SubmissionService
	FlashSecret []byte
	FlashSecure bool
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		submissions: cfg.Submissions,
		flashSecret: cfg.FlashSecret,
		flashSecure: cfg.FlashSecure,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/entries", h.submitHandler())
	r.Get("/flash", h.flashHandler())
}
