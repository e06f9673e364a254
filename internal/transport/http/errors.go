package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"trivia-service/internal/domain"
)

// statusFor maps domain errors to HTTP status codes. Unknown errors are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrQuestionnaireNotFound),
		errors.Is(err, domain.ErrGameSessionNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrSessionClosed),
		errors.Is(err, domain.ErrSessionFinished):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSessionNotWaiting),
		errors.Is(err, domain.ErrSessionNotStarted),
		errors.Is(err, domain.ErrInvalidQuestionIndex),
		errors.Is(err, domain.ErrUnsupportedQuestionType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProgressConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMediaUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError answers with a plain text body.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.String(status, "internal server error")
		return
	}
	c.String(status, err.Error())
}

func badRequest(c *gin.Context, msg string) {
	c.String(http.StatusBadRequest, msg)
}
