package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/forms/domain"
	"github.com/formloop/formloop-services/api/internal/interfaces/http/common"
)

const (
	captchaUnavailableMessage = "Please enable reCaptcha plugin!"
	captchaFailedMessage      = "Please check captcha!"
)

// submitHandler processes one form submission: handle resolution, mode
// selection, then the pipeline via the submission service. Every branch
// maps to either the ajax JSON contract or the flash/redirect contract.
func (h *Handler) submitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxSubmissionBody)
		if err := r.ParseForm(); err != nil {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "malformed form body"})
			return
		}

		handle := strings.TrimSpace(r.PostFormValue("formHandle"))
		if handle == "" {
			handle = strings.TrimSpace(r.PostFormValue("formhandle"))
		}
		if handle == "" {
			common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "form not found"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		form, err := h.submissions.ResolveForm(ctx, handle)
		if err != nil {
			if errors.Is(err, application.ErrFormNotFound) {
				common.WriteJSON(h.logger, w, http.StatusNotFound, map[string]string{"error": "form not found"})
				return
			}
			h.logger.Printf("form lookup failed handle=%s err=%v", handle, err)
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, map[string]string{"error": "form lookup failed"})
			return
		}

		// Ajax mode comes from the form's own configuration; the request
		// must additionally self-identify as asynchronous.
		ajax := form.AjaxSubmit
		if ajax && r.Header.Get(common.AjaxRequestHeader) != common.AjaxRequestValue {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, map[string]string{"error": "form requires an ajax submission"})
			return
		}

		payload := domain.Payload(r.PostForm)
		cmd := application.SubmitCommand{
			Payload:      payload,
			CaptchaToken: r.PostFormValue("g-recaptcha-response"),
		}

		result, err := h.submissions.Submit(ctx, form, cmd)
		if err != nil {
			h.respondError(w, r, form, ajax, err)
			return
		}

		if ajax {
			common.WriteJSON(h.logger, w, http.StatusOK, submitSuccessResponse{
				Success:   true,
				Message:   result.Message,
				ReceiptID: result.ReceiptID,
			})
			return
		}

		common.SetFlash(w, h.flashSecret, h.flashSecure, common.Flash{
			Kind:    common.FlashSuccess,
			Message: result.Message,
		})
		if form.RedirectOnSuccess && form.RedirectURL != "" {
			http.Redirect(w, r, form.RedirectURL, http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, form *domain.Form, ajax bool, err error) {
	var validationErr *application.ValidationFailedError
	var hookErr *application.HookRejectedError

	switch {
	case errors.Is(err, application.ErrCaptchaUnavailable):
		h.logger.Printf("captcha provider unavailable form=%s", form.Handle)
		if ajax {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, submitErrorResponse{Error: true, Message: captchaUnavailableMessage})
			return
		}
		common.SetFlash(w, h.flashSecret, h.flashSecure, common.Flash{Kind: common.FlashError, Message: captchaUnavailableMessage})
		h.redirectToPostedURL(w, r)

	case errors.Is(err, application.ErrCaptchaRejected):
		if ajax {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, submitErrorResponse{Error: true, Message: captchaFailedMessage})
			return
		}
		common.SetFlash(w, h.flashSecret, h.flashSecure, common.Flash{Kind: common.FlashError, Message: captchaFailedMessage})
		h.redirectToPostedURL(w, r)

	case errors.As(err, &validationErr):
		message := application.ErrorMessage(form)
		if ajax {
			fieldErrors := make([]fieldError, 0, len(validationErr.Errors))
			for _, verr := range validationErr.Errors {
				fieldErrors = append(fieldErrors, fieldError{Field: verr.FieldHandle, Message: verr.Message})
			}
			common.WriteJSON(h.logger, w, http.StatusBadRequest, submitErrorResponse{Error: true, Message: message, Errors: fieldErrors})
			return
		}
		h.flashOrRedirectError(w, r, form, message)

	case errors.As(err, &hookErr):
		h.logger.Printf("submission rejected by hook form=%s reason=%q", form.Handle, hookErr.Reason)
		message := application.ErrorMessage(form)
		if ajax {
			common.WriteJSON(h.logger, w, http.StatusBadRequest, submitErrorResponse{Error: true, Message: message})
			return
		}
		h.flashOrRedirectError(w, r, form, message)

	default:
		h.logger.Printf("submission failed form=%s err=%v", form.Handle, err)
		message := application.ErrorMessage(form)
		if ajax {
			common.WriteJSON(h.logger, w, http.StatusInternalServerError, submitErrorResponse{Error: true, Message: message})
			return
		}
		h.flashOrRedirectError(w, r, form, message)
	}
}

// flashOrRedirectError redirects back to the originating page when the
// form configures redirects, otherwise it only sets the flash error.
func (h *Handler) flashOrRedirectError(w http.ResponseWriter, r *http.Request, form *domain.Form, message string) {
	common.SetFlash(w, h.flashSecret, h.flashSecure, common.Flash{Kind: common.FlashError, Message: message})
	if form.RedirectOnSuccess {
		h.redirectToPostedURL(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// redirectToPostedURL sends the submitter back to the page that posted
// the form, preferring the form's redirect indicator field.
func (h *Handler) redirectToPostedURL(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.PostFormValue("formredirect"))
	if target == "" {
		target = strings.TrimSpace(r.Referer())
	}
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flashHandler hands the pending flash message to the next rendered
// page and clears it.
func (h *Handler) flashHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flash, ok := common.TakeFlash(w, r, h.flashSecret)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, flash)
	}
}
