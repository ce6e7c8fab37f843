package errors

import (
	"errors"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Common error types for the publishing service
var (
	// Caller errors
	ErrMissingParameters = errors.New("missing parameters")
	ErrInvalidRequest    = errors.New("invalid request")

	// Authentication integrity errors
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidSession   = errors.New("invalid session")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Upstream OAuth failures
	ErrAuthInit            = errors.New("auth initialisation failed")
	ErrAuthExchangeFailed  = errors.New("auth exchange failed")
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// Publishing errors
	ErrPlatformMismatch  = errors.New("platform mismatch")
	ErrMediaUploadFailed = errors.New("media upload failed")
	ErrPublishFailed     = errors.New("publish failed")

	// Collaborator errors
	ErrGenerationFailed = errors.New("content generation failed")
	ErrNewsUnavailable  = errors.New("news feed unavailable")
)

// Wrap annotates err with a message and a stack trace
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message and a stack trace
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

var statusCodes = []struct {
	err    error
	status int
	code   string
}{
	{ErrMissingParameters, http.StatusBadRequest, "missing_parameters"},
	{ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{ErrInvalidState, http.StatusBadRequest, "invalid_state"},
	{ErrInvalidSession, http.StatusUnauthorized, "invalid_session"},
	{ErrNotAuthenticated, http.StatusUnauthorized, "not_authenticated"},
	{ErrPlatformMismatch, http.StatusForbidden, "platform_mismatch"},
	{ErrMediaUploadFailed, http.StatusBadGateway, "media_upload_failed"},
	{ErrPublishFailed, http.StatusBadGateway, "publish_failed"},
	{ErrGenerationFailed, http.StatusBadGateway, "generation_failed"},
	{ErrNewsUnavailable, http.StatusBadGateway, "news_unavailable"},
	{ErrAuthInit, http.StatusInternalServerError, "auth_init_error"},
	{ErrAuthExchangeFailed, http.StatusInternalServerError, "auth_exchange_failed"},
	{ErrTokenExchangeFailed, http.StatusInternalServerError, "token_exchange_failed"},
}

// StatusCode maps err to the HTTP status and error code returned to callers.
// Unclassified errors are internal errors.
func StatusCode(err error) (int, string) {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status, sc.code
		}
	}
	return http.StatusInternalServerError, "server_error"
}
