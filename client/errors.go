package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goliatone/go-errors"
)

const (
	textCodeBackendError       = "BACKEND_ERROR"
	textCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	textCodeUnauthorized       = "BACKEND_UNAUTHORIZED"
)

// backendFault is the error envelope the backend returns on failures. Older
// endpoints use "error", newer ones "message"; both are optional.
type backendFault struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newAPIError turns a non-2xx response into a rich error. The body is parsed
// leniently: an empty or malformed body still yields a usable message.
func newAPIError(status int, body []byte) error {
	var fault backendFault
	_ = json.Unmarshal(body, &fault)

	message := fault.Error
	if message == "" {
		message = fault.Message
	}
	if message == "" {
		message = fmt.Sprintf("Error %d", status)
	}

	category := errors.CategoryOperation
	textCode := textCodeBackendError

	switch status {
	case http.StatusUnauthorized:
		category = errors.CategoryAuth
		textCode = textCodeUnauthorized
	case http.StatusForbidden:
		category = errors.CategoryAuthz
	case http.StatusConflict:
		category = errors.CategoryConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		category = errors.CategoryValidation
	case http.StatusNotFound:
		category = errors.CategoryNotFound
	}

	return errors.New(message, category).
		WithCode(status).
		WithTextCode(textCode).
		WithMetadata(map[string]any{
			"status": status,
		})
}

func wrapTransport(err error) error {
	return errors.Wrap(err, errors.CategoryOperation, "backend request failed").
		WithTextCode(textCodeBackendUnreachable)
}

func wrapEncoding(err error) error {
	return errors.Wrap(err, errors.CategoryInternal, "encode request body")
}

func wrapDecoding(err error) error {
	return errors.Wrap(err, errors.CategoryInternal, "decode backend response")
}

// IsUnauthorized reports whether err is a definitive 401 from the backend.
// Transport failures and other statuses return false so callers never discard
// a possibly valid credential over a transient fault.
func IsUnauthorized(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Code == http.StatusUnauthorized
}

// Message extracts the display message from any error the client produced.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Message != "" {
		return rich.Message
	}
	return err.Error()
}
