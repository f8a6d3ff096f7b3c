package common

const (
	// MaxSubmissionBody limits request bodies on submission endpoints.
	MaxSubmissionBody = 1 << 20
	// AjaxRequestHeader is the header an asynchronous submission must
	// carry to be served in ajax mode.
	AjaxRequestHeader = "X-Requested-With"
	// AjaxRequestValue is the expected value of AjaxRequestHeader.
	AjaxRequestValue = "XMLHttpRequest"
)
