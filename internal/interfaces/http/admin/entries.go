package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/forms/domain"
	"github.com/formloop/formloop-services/api/internal/interfaces/http/common"
)

type entryResponse struct {
	ID        string              `json:"id"`
	FormID    string              `json:"formId"`
	Title     string              `json:"title"`
	ReceiptID string              `json:"receiptId,omitempty"`
	Data      map[string][]string `json:"data"`
	CreatedAt time.Time           `json:"createdAt"`
}

type entryListResponse struct {
	Items []entryResponse `json:"items"`
}

func (h *Handler) entryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		formID := strings.TrimSpace(query.Get("formId"))
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 0)
		page, _ := common.ParsePositiveInt(query.Get("page"), 0)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if formID != "" && h.forms != nil {
			if _, err := h.forms.FindByID(ctx, formID); err != nil {
				if errors.Is(err, application.ErrFormNotFound) {
					common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "form not found"})
					return
				}
				h.logger.Printf("admin form lookup failed id=%s err=%v", formID, err)
				common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "form lookup failed"})
				return
			}
		}

		entries, err := h.entries.List(ctx, application.EntryFilter{FormID: formID}, application.Paging{Page: page, Limit: limit})
		if err != nil {
			if errors.Is(err, application.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "form not found"})
				return
			}
			h.logger.Printf("admin entry list fetch failed: %v", err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "entry list fetch failed"})
			return
		}

		items := make([]entryResponse, 0, len(entries))
		for _, entry := range entries {
			items = append(items, entryDomainToResponse(entry))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, entryListResponse{Items: items})
	}
}

func (h *Handler) entryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "entry id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if user, ok := common.UserFromContext(r.Context()); ok {
			h.logger.Printf("entry detail requested id=%s by=%s", idParam, user.ID)
		}

		entry, err := h.entries.Detail(ctx, idParam)
		if err != nil {
			if errors.Is(err, application.ErrEntryNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "entry not found"})
				return
			}
			h.logger.Printf("admin entry detail fetch failed id=%s err=%v", idParam, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "entry fetch failed"})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, entryDomainToResponse(*entry))
	}
}

func entryDomainToResponse(entry domain.Entry) entryResponse {
	return entryResponse{
		ID:        entry.ID,
		FormID:    entry.FormID,
		Title:     entry.Title,
		ReceiptID: entry.ReceiptID,
		Data:      entry.Data,
		CreatedAt: entry.CreatedAt,
	}
}
