package controllers

import (
	"Awardly/services/blob"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// friend pictures above this size are refused
const maxImageBytes = 5 << 20

func blobRef(c *gin.Context) string {
	return "friends/" + c.Param("image_id")
}

// @Summary Upload a friend picture
// @Description Stores the request body under a reference from /auth/uploads. Only served with the in-memory blob backend.
// @Tags blobs
// @Accept octet-stream
// @Param image_id path string true "Image id"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 413 {object} object{error=string}
// @Router /blobs/upload/friends/{image_id} [put]
func PutBlob(store *blob.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
				return
			}
			badRequest(c, err)
			return
		}

		err = store.Put(blobRef(c), blob.Object{ContentType: c.ContentType(), Data: data})
		switch {
		case errors.Is(err, blob.ErrInvalidRef):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image reference"})
		case errors.Is(err, blob.ErrUnknownRef):
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload URL not found"})
		case err != nil:
			respondError(c, err)
		default:
			c.Status(http.StatusNoContent)
		}
	}
}

// @Summary Get a friend picture
// @Description Serves an image uploaded to the in-memory blob backend
// @Tags blobs
// @Produce octet-stream
// @Param image_id path string true "Image id"
// @Success 200
// @Failure 404 {object} object{error=string}
// @Router /blobs/friends/{image_id} [get]
func GetBlob(store *blob.MemoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, ok := store.Get(blobRef(c))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		contentType := obj.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, obj.Data)
	}
}
