package errors

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Responder renders problems as ErrorResponse bodies and logs them.
type Responder struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewResponder creates a responder. A nil logger discards logs.
func NewResponder(logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Responder{logger: logger, now: time.Now}
}

// Respond aborts the request with the problem rendered as an ErrorResponse.
// 4xx are logged at warn, 5xx at error.
func (r *Responder) Respond(c *gin.Context, problem Problem) {
	r.respond(c, problem, nil)
}

func (r *Responder) respond(c *gin.Context, problem Problem, cause error) {
	path := c.Request.URL.Path
	attrs := []slog.Attr{
		slog.String("path", path),
		slog.Int("status", problem.Status),
		slog.String("error", problem.Code),
		slog.String("message", problem.Message),
	}
	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
		if cause != nil {
			attrs = append(attrs, slog.String("cause", cause.Error()))
		}
	}
	r.logger.LogAttrs(c.Request.Context(), level, "request failed", attrs...)

	c.AbortWithStatusJSON(problem.Status, ErrorResponse{
		Timestamp: r.now().UTC(),
		Status:    problem.Status,
		Error:     problem.Code,
		Message:   problem.Message,
		Path:      path,
	})
}

// RespondError renders err, which is used verbatim when it is a Problem.
// Anything else becomes a generic internal error; the cause is only logged.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem Problem
	if errors.As(err, &problem) {
		r.respond(c, problem, err)
		return
	}
	r.respond(c, ErrInternal, err)
}

// NotFound sends a 404 response.
func (r *Responder) NotFound(c *gin.Context, message string) {
	r.Respond(c, ErrNotFound.WithMessage(message))
}

// ValidationFailed sends a 400 VALIDATION_ERROR response.
func (r *Responder) ValidationFailed(c *gin.Context, message string) {
	r.Respond(c, ErrValidation.WithMessage(message))
}

// InvalidRequest sends a 400 INVALID_REQUEST response.
func (r *Responder) InvalidRequest(c *gin.Context, message string) {
	r.Respond(c, ErrInvalidRequest.WithMessage(message))
}

// Recovery returns gin middleware that renders panics as internal errors.
func (r *Responder) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}
		r.respond(c, ErrInternal, err)
	})
}

// ErrorMapper maps domain/application errors to a Problem.
type ErrorMapper func(err error) (Problem, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(logger *slog.Logger, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(logger),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.respond(c, problem, err)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
