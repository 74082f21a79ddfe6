package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is the single error kind every failed call collapses into:
// transport failures, non-2xx responses, and unparseable bodies alike.
// Status is zero when no HTTP response was received. Message is always safe
// to show the user.
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// errorBody is the shape backends use for rejections: either a single
// `error` string or a validation `errors` array with `msg` fields.
type errorBody struct {
	Error  string `json:"error"`
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

// decodeError extracts the best-effort message from a non-2xx response. A
// missing or unparseable body falls back to "HTTP <status>".
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	if body.Error != "" {
		apiErr.Message = body.Error
	} else if len(body.Errors) > 0 && body.Errors[0].Msg != "" {
		apiErr.Message = body.Errors[0].Msg
	}
	return apiErr
}

// transportError wraps a network, encode or decode failure.
func transportError(err error) *APIError {
	return &APIError{Message: err.Error(), cause: err}
}
