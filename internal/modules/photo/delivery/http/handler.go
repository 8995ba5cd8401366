package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rescueplate/backend/pkg/response"
	"github.com/rescueplate/backend/pkg/storage"
)

// PhotoHandler accepts donation photo uploads ahead of listing creation.
// The returned URL goes into the donation's photo_url field.
type PhotoHandler struct {
	fileStorage storage.ImageStorage
}

func NewPhotoHandler(fileStorage storage.ImageStorage) *PhotoHandler {
	return &PhotoHandler{fileStorage: fileStorage}
}

func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	if h.fileStorage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage is not configured"})
		return
	}

	if _, err := response.GetUserID(c); err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer file.Close()

	folder := os.Getenv("CLOUDINARY_UPLOAD_FOLDER")
	if folder == "" {
		folder = "food_rescue"
	}

	url, err := h.fileStorage.UploadImage(c.Request.Context(), file, folder, fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"photo_url": url})
}
