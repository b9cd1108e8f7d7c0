package server

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/errors"
)

const internalServerError = "internal server error"

// writeError maps err to its status. Server errors are logged and never leaked.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	if errors.IsInternal(err) {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": internalServerError})
		return
	}
	status := errors.MapToHTTPStatus(err)
	log.Debug("Request rejected", "path", c.FullPath(), "status", status, "error", err)
	c.JSON(status, gin.H{"message": err.Error()})
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", errors.ErrInvalidRequest)
	}
	return nil
}
