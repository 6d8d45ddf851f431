// Package errors renders API failures as a uniform JSON error body.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	// Timestamp is when the failure was rendered.
	Timestamp time.Time `json:"timestamp"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Error is the machine readable failure category, e.g. NOT_FOUND.
	Error string `json:"error"`
	// Message is a human readable explanation specific to this occurrence.
	Message string `json:"message"`
	// Path is the request path that failed.
	Path string `json:"path"`
}

// Failure codes carried in ErrorResponse.Error.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeBadRequest     = "BAD_REQUEST"
	CodeValidation     = "VALIDATION_ERROR"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
)

// GenericInternalMessage is the only message clients see for unexpected failures.
const GenericInternalMessage = "Something went wrong. Please try again later."

// Problem is a response template that can also travel as an error value.
type Problem struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (p Problem) Error() string {
	if p.Message != "" {
		return fmt.Sprintf("%s: %s", p.Code, p.Message)
	}
	return p.Code
}

// WithMessage returns a copy with the given message.
func (p Problem) WithMessage(message string) Problem {
	p.Message = message
	return p
}

// Pre-defined problem templates.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = Problem{Status: http.StatusNotFound, Code: CodeNotFound}

	// ErrBadRequest indicates the request conflicts with the resource state.
	ErrBadRequest = Problem{Status: http.StatusBadRequest, Code: CodeBadRequest}

	// ErrValidation indicates a field constraint failed.
	ErrValidation = Problem{Status: http.StatusBadRequest, Code: CodeValidation}

	// ErrInvalidRequest indicates the body could not be read or decoded.
	ErrInvalidRequest = Problem{Status: http.StatusBadRequest, Code: CodeInvalidRequest}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = Problem{Status: http.StatusInternalServerError, Code: CodeInternal, Message: GenericInternalMessage}
)
