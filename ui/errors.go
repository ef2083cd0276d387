package ui

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"brainmapp/internal/errors"
)

// StatusClientClosedRequest is reported when the caller went away mid-request.
const StatusClientClosedRequest = 499

// statusFor maps an application error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.IsCode(err, errors.CodeNotFound):
		return http.StatusNotFound
	case errors.IsCode(err, errors.CodeScanError),
		errors.IsCode(err, errors.CodeInvalidInput),
		errors.IsCode(err, errors.CodeValidationError):
		return http.StatusBadRequest
	case errors.IsCode(err, errors.CodeLoadError):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
