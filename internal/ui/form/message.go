package form

import (
	"errors"

	"github.com/turtacn/patentlens/pkg/client"
	plerrors "github.com/turtacn/patentlens/pkg/errors"
)

const (
	// FailureMessage is shown when the service rejects a request without saying why.
	FailureMessage = client.DefaultFailureMessage
	// UnknownErrorMessage is shown when an error carries no message at all.
	UnknownErrorMessage = "An unknown error occurred"
)

// MessageFor extracts the user-facing message for a failed submission.
// Precedence: the service's own error text, then the error's message, then
// UnknownErrorMessage.
func MessageFor(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return FailureMessage
	}

	var appErr *plerrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		if appErr.Detail != "" {
			return appErr.Message + ": " + appErr.Detail
		}
		return appErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
