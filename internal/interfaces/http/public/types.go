package public

// submitSuccessResponse is the ajax-mode success payload.
type submitSuccessResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ReceiptID string `json:"receiptId,omitempty"`
}

// submitErrorResponse is the ajax-mode error payload.
type submitErrorResponse struct {
	Error   bool         `json:"error"`
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors,omitempty"`
}

// fieldError reports one field-rule violation.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
