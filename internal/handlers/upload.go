package handlers

import (
	"context"
	"net/http"

	"github.com/brightideas/bright-ideas-backend/internal/services"
)

const maxUploadSize = 10 << 20 // 10 MB

// UploadHandler pushes idea images to Cloudinary and hands back the URL the
// client then stores on the idea. Images stay opaque to the core.
type UploadHandler struct {
	cloudinary *services.CloudinaryService
}

func NewUploadHandler(cloudinary *services.CloudinaryService) *UploadHandler {
	return &UploadHandler{cloudinary: cloudinary}
}

// Upload handles POST /upload (multipart, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.cloudinary == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"message": "Upload service is not configured",
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "File is required")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	url, err := h.cloudinary.UploadFile(ctx, file, "ideas")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to upload file",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"url":     url,
	})
}
