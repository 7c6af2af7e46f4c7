package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nisimpson/geoquiz"
)

// statusFor maps an error to a response status. Classified errors map by
// kind; anything else falls back to the message text.
func statusFor(err error) int {
	switch geoquiz.KindOf(err) {
	case geoquiz.KindValidation:
		return http.StatusBadRequest
	case geoquiz.KindAuthentication:
		return http.StatusUnauthorized
	case geoquiz.KindAuthorization:
		return http.StatusForbidden
	case geoquiz.KindNotFound:
		return http.StatusNotFound
	case geoquiz.KindStore:
		return http.StatusInternalServerError
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "Unauthorized"):
		return http.StatusForbidden
	case strings.Contains(msg, "required"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err. Client errors carry the error
// message; server errors carry fallback and the raw detail.
func (h *Handler) fail(c *gin.Context, fallback string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.internalError(c, fallback, err)
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	h.logger.ErrorContext(c.Request.Context(), message,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": message,
		"error":   err.Error(),
	})
}
