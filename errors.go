package calendarApi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tomroth04/calendarAPI/types"
)

// ErrorKind is the coarse class of a failed backend call
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindRateLimited
	KindServer
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate-limited"
	case KindServer:
		return "server-error"
	case KindNetwork:
		return "network-error"
	default:
		return "unknown"
	}
}

var kindMessages = map[ErrorKind]string{
	KindNotFound:     "The requested resource could not be found.",
	KindUnauthorized: "Authentication required. Please log in again.",
	KindForbidden:    "You do not have permission to access this resource.",
	KindRateLimited:  "Too many requests. Please try again later.",
	KindServer:       "A server error occurred. Please try again later.",
	KindNetwork:      "Please check your network connection.",
}

const unknownErrorMessage = "An unknown error occurred."

// APIError is what every failed backend call turns into. Message is safe to
// show to a user as is.
type APIError struct {
	Kind   ErrorKind
	Status int
	// Message is the user facing text
	Message string
	// ServerMessage is the "message" or "error" field of the response body, if any
	ServerMessage string
	// Err is the transport error for network failures
	Err error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.UserMessage())
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.UserMessage(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.UserMessage())
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return unknownErrorMessage
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindUnknown
	}
}

func responseError(status int, body []byte) *APIError {
	serverMessage := gjson.GetBytes(body, "message").String()
	if serverMessage == "" {
		serverMessage = gjson.GetBytes(body, "error").String()
	}

	kind := kindForStatus(status)
	message := kindMessages[kind]
	if kind == KindUnknown {
		message = serverMessage
	}
	return &APIError{
		Kind:          kind,
		Status:        status,
		Message:       message,
		ServerMessage: serverMessage,
	}
}

func transportError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: kindMessages[KindNetwork],
		Err:     err,
	}
}

// KindOf returns the kind of err, KindUnknown when err is not an APIError
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status behind err, 0 when there is none
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ErrorMessage extracts the text to show a user for err
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	if err.Error() != "" {
		return err.Error()
	}
	return unknownErrorMessage
}

// withFallbackMessage fills in msg when the backend gave no usable message
func withFallbackMessage(err error, msg string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "" {
		return err
	}
	copied := *apiErr
	copied.Message = msg
	return &copied
}

// withStatusMessage replaces the message of err when it carries the given status
func withStatusMessage(err error, status int, msg string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != status {
		return err
	}
	copied := *apiErr
	copied.Message = msg
	return &copied
}

// withServerMessage prefers the backend's own message, then msg
func withServerMessage(err error, msg string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	copied := *apiErr
	if copied.ServerMessage != "" {
		copied.Message = copied.ServerMessage
	} else {
		copied.Message = msg
	}
	return &copied
}

// withMessage replaces the user message of err whatever it was
func withMessage(err error, msg string) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	copied := *apiErr
	copied.Message = msg
	return &copied
}
