package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadline-dev/threadline/internal/uploads"
)

// UploadResponse represents a successful upload
type UploadResponse struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int    `json:"size"`
	Type string `json:"type"`
}

// uploadImage stores a product image from a multipart form. Admin only.
// POST /api/upload
func (s *Server) uploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	// Read one byte past the cap so oversize files are rejected instead of
	// silently truncated
	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxFileSize+1))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	key, err := s.uploadStore.Save(header.Filename, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrEmptyFile),
			errors.Is(err, uploads.ErrFileTooLarge),
			errors.Is(err, uploads.ErrInvalidType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.logger.Error().Err(err).Msg("Failed to store upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		URL:  uploads.URL(key),
		Key:  key,
		Size: len(data),
		Type: contentType,
	})
}

// deleteUpload removes a stored image by key. Admin only.
// DELETE /api/upload?key=products/...
func (s *Server) deleteUpload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File key is required"})
		return
	}

	if err := s.uploadStore.Delete(key); err != nil {
		if errors.Is(err, uploads.ErrInvalidKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file key"})
			return
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
