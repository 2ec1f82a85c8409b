package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoText       = errors.New("no text could be extracted")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTP error helpers

type httpError struct {
	Error string `json:"error"`
}

// WriteHTTPError writes a JSON error body with the given status code.
func WriteHTTPError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(httpError{Error: message})
}

func BadRequestError(w http.ResponseWriter, format string, args ...any) {
	WriteHTTPError(w, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func NotFoundError(w http.ResponseWriter, format string, args ...any) {
	WriteHTTPError(w, http.StatusNotFound, fmt.Sprintf(format, args...))
}

func UnprocessableError(w http.ResponseWriter, format string, args ...any) {
	WriteHTTPError(w, http.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

func InternalError(w http.ResponseWriter, format string, args ...any) {
	WriteHTTPError(w, http.StatusInternalServerError, fmt.Sprintf(format, args...))
}
