package platform

import (
	"fmt"
	"net/http"

	"catalog-sync/core/reconcile"
)

// Error is a non-2xx response of the platform.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("platform responded with status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps 409 to reconcile.ErrConflict and 404 to reconcile.ErrNotFound.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return reconcile.ErrConflict
	case http.StatusNotFound:
		return reconcile.ErrNotFound
	}
	return nil
}

// errorBody is the error payload returned by the platform.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
