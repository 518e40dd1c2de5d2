package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"FakeNewsDetector/internal/domain"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArticle):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTrainingInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrArtifactNotFound), errors.Is(err, domain.ErrNoCorpus):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, "route", c.FullPath(), "error", err)
	} else {
		h.logger.Debug(msg, "route", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
