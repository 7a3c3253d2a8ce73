package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/middleware"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/response"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Check database health
	if err := api.health.Health(ctx); err != nil {
		api.logger.ErrorWithErr("Health check failed", err)
		c.JSON(http.StatusServiceUnavailable, response.New(
			http.StatusServiceUnavailable,
			gin.H{"status": "unhealthy"},
			"Database unavailable",
		))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "healthy"}, "OK")
}

// principal returns the caller attached by the auth middleware
func principal(c *gin.Context) *models.User {
	user, _ := middleware.GetPrincipal(c)
	return user
}

// saveUpload stores the multipart file in field under the upload directory.
// It returns an empty path when the field is absent. The caller must invoke
// cleanup once the file has been handed to the media host.
func (api *API) saveUpload(c *gin.Context, field string) (path string, size int64, cleanup func(), err error) {
	cleanup = func() {}

	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", 0, cleanup, nil
	}
	if err != nil {
		return "", 0, cleanup, apperr.BadRequest("Invalid multipart form")
	}

	if api.maxFileSize > 0 && file.Size > api.maxFileSize {
		return "", 0, cleanup, apperr.BadRequest(fmt.Sprintf("%s exceeds the maximum size of %d bytes", field, api.maxFileSize))
	}

	// Keep the extension: storage derives the folder and content type from it
	path = filepath.Join(api.uploadDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", 0, cleanup, apperr.Store("Failed to save file", err)
	}

	return path, file.Size, func() { os.Remove(path) }, nil
}
