package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tenancy/pkg/logger"
)

// ErrorMapper translates domain errors into HTTPError values. It returns err
// unchanged when it has no mapping.
type ErrorMapper func(err error) error

// NewErrorHandler returns an ErrorHandler rendering JSON errors. Client
// errors are logged at warn level and server errors at error level.
func NewErrorHandler(log *slog.Logger, mapper ErrorMapper) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	if mapper == nil {
		mapper = func(err error) error { return err }
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		resp := JSONError(mapper(err)).(*jsonResponse)

		level := slog.LevelWarn
		if resp.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.Error(err),
			slog.Int("status_code", resp.status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error", logger.Error(renderErr))
		}
	}
}
