package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formloop/formloop-services/api/internal/forms/application"
	"github.com/formloop/formloop-services/api/internal/forms/domain"
	"github.com/formloop/formloop-services/api/internal/interfaces/http/common"
)

type fakeSubmissions struct {
	forms      map[string]*domain.Form
	result     *application.SubmitResult
	submitErr  error
	lastSubmit application.SubmitCommand
}

func (f *fakeSubmissions) ResolveForm(_ context.Context, handle string) (*domain.Form, error) {
	form, ok := f.forms[handle]
	if !ok {
		return nil, application.ErrFormNotFound
	}
	return form, nil
}

func (f *fakeSubmissions) Submit(_ context.Context, _ *domain.Form, cmd application.SubmitCommand) (*application.SubmitResult, error) {
	f.lastSubmit = cmd
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func newTestHandler(submissions *fakeSubmissions) http.Handler {
	h := NewHandler(Config{
		Logger:      log.New(io.Discard, "", 0),
		Submissions: submissions,
		FlashSecret: []byte("test-secret"),
	})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func ajaxForm() *domain.Form {
	return &domain.Form{
		ID:         "507f1f77bcf86cd799439011",
		Handle:     "contact",
		Name:       "Contact Us",
		AjaxSubmit: true,
	}
}

func pageForm() *domain.Form {
	form := ajaxForm()
	form.AjaxSubmit = false
	return form
}

func okResult() *application.SubmitResult {
	return &application.SubmitResult{
		EntryID:   "entry-1",
		ReceiptID: "receipt-1",
		Message:   application.DefaultSuccessMessage,
	}
}

func postEntries(handler http.Handler, values url.Values, ajax bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		r.Header.Set(common.AjaxRequestHeader, common.AjaxRequestValue)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestSubmitMissingHandle(t *testing.T) {
	handler := newTestHandler(&fakeSubmissions{forms: map[string]*domain.Form{}})

	w := postEntries(handler, url.Values{"fullName": {"Jo"}}, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitUnknownHandle(t *testing.T) {
	handler := newTestHandler(&fakeSubmissions{forms: map[string]*domain.Form{}})

	w := postEntries(handler, url.Values{"formHandle": {"ghost"}}, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitLowercaseHandleKey(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:  map[string]*domain.Form{"contact": ajaxForm()},
		result: okResult(),
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formhandle": {"contact"}}, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitAjaxFormRequiresAjaxHeader(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:  map[string]*domain.Form{"contact": ajaxForm()},
		result: okResult(),
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitAjaxSuccess(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:  map[string]*domain.Form{"contact": ajaxForm()},
		result: okResult(),
	}
	handler := newTestHandler(submissions)

	values := url.Values{
		"formHandle":           {"contact"},
		"fullName":             {"Jo"},
		"g-recaptcha-response": {"tok-123"},
	}
	w := postEntries(handler, values, true)
	require.Equal(t, http.StatusOK, w.Code)

	var body submitSuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, application.DefaultSuccessMessage, body.Message)
	assert.Equal(t, "receipt-1", body.ReceiptID)

	assert.Equal(t, "tok-123", submissions.lastSubmit.CaptchaToken)
	assert.Equal(t, "Jo", submissions.lastSubmit.Payload.Get("fullName"))
}

func TestSubmitPageSuccessWithRedirect(t *testing.T) {
	form := pageForm()
	form.RedirectOnSuccess = true
	form.RedirectURL = "/thanks"
	submissions := &fakeSubmissions{
		forms:  map[string]*domain.Form{"contact": form},
		result: okResult(),
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/thanks", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies(), "success flash not set")
}

func TestSubmitPageSuccessWithoutRedirect(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:  map[string]*domain.Form{"contact": pageForm()},
		result: okResult(),
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, false)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestSubmitAjaxCaptchaUnavailable(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:     map[string]*domain.Form{"contact": ajaxForm()},
		submitErr: application.ErrCaptchaUnavailable,
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, true)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body submitErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Error)
	assert.Equal(t, "Please enable reCaptcha plugin!", body.Message)
}

func TestSubmitPageCaptchaRejectedRedirectsToPostedURL(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:     map[string]*domain.Form{"contact": pageForm()},
		submitErr: application.ErrCaptchaRejected,
	}
	handler := newTestHandler(submissions)

	values := url.Values{
		"formHandle":   {"contact"},
		"formredirect": {"/contact-page"},
	}
	w := postEntries(handler, values, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/contact-page", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestSubmitAjaxValidationErrors(t *testing.T) {
	submissions := &fakeSubmissions{
		forms: map[string]*domain.Form{"contact": ajaxForm()},
		submitErr: &application.ValidationFailedError{Errors: []domain.ValidationError{
			{FieldHandle: "fullName", Message: "Full Name cannot be blank."},
			{FieldHandle: "email", Message: "Email needs to contain a valid email."},
		}},
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, true)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body submitErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, application.DefaultErrorMessage, body.Message)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "fullName", body.Errors[0].Field)
	assert.Equal(t, "Full Name cannot be blank.", body.Errors[0].Message)
}

func TestSubmitPageValidationErrorSetsFlash(t *testing.T) {
	submissions := &fakeSubmissions{
		forms: map[string]*domain.Form{"contact": pageForm()},
		submitErr: &application.ValidationFailedError{Errors: []domain.ValidationError{
			{FieldHandle: "fullName", Message: "Full Name cannot be blank."},
		}},
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, false)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestSubmitAjaxHookRejected(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:     map[string]*domain.Form{"contact": ajaxForm()},
		submitErr: &application.HookRejectedError{Reason: "blocked"},
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitAjaxInternalError(t *testing.T) {
	submissions := &fakeSubmissions{
		forms:     map[string]*domain.Form{"contact": ajaxForm()},
		submitErr: errors.New("mongo down"),
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, true)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body submitErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, application.DefaultErrorMessage, body.Message)
}

func TestSubmitUsesCustomErrorMessage(t *testing.T) {
	form := ajaxForm()
	form.ErrorMessage = "Please fix the form."
	submissions := &fakeSubmissions{
		forms:     map[string]*domain.Form{"contact": form},
		submitErr: &application.ValidationFailedError{Errors: []domain.ValidationError{{FieldHandle: "x", Message: "x cannot be blank."}}},
	}
	handler := newTestHandler(submissions)

	w := postEntries(handler, url.Values{"formHandle": {"contact"}}, true)
	var body submitErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Please fix the form.", body.Message)
}

func TestFlashEndpointRoundtrip(t *testing.T) {
	form := pageForm()
	submissions := &fakeSubmissions{
		forms:  map[string]*domain.Form{"contact": form},
		result: okResult(),
	}
	handler := newTestHandler(submissions)

	submitResp := postEntries(handler, url.Values{"formHandle": {"contact"}}, false)
	require.Equal(t, http.StatusNoContent, submitResp.Code)

	r := httptest.NewRequest(http.MethodGet, "/flash", nil)
	for _, cookie := range submitResp.Result().Cookies() {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var flash common.Flash
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flash))
	assert.Equal(t, common.FlashSuccess, flash.Kind)
	assert.Equal(t, application.DefaultSuccessMessage, flash.Message)
}

func TestFlashEndpointEmpty(t *testing.T) {
	handler := newTestHandler(&fakeSubmissions{forms: map[string]*domain.Form{}})

	r := httptest.NewRequest(http.MethodGet, "/flash", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
