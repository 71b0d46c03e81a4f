package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"shoestore/internal/apperrors"
	"shoestore/internal/storage"
)

// UploadHandler handles product image uploads.
type UploadHandler struct {
	storage storage.Storage
	rules   storage.Rules
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store storage.Storage, rules storage.Rules) *UploadHandler {
	return &UploadHandler{storage: store, rules: rules}
}

// RegisterRoutes registers the upload routes under /uploads.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/uploads/images", h.HandleUploadImages)
}

// HandleUploadImages stores the multipart "images" files and returns their URLs.
func (h *UploadHandler) HandleUploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, apperrors.Validation("No files uploaded"))
	}
	files := form.File["images"]
	if err := h.rules.Check(files); err != nil {
		return respondError(c, err)
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := storage.SaveFile(c.UserContext(), h.storage, file)
		if err != nil {
			return respondError(c, apperrors.Store(err, "Error uploading files"))
		}
		// Local files are served by this app; make their URLs absolute.
		if strings.HasPrefix(url, "/") {
			url = c.BaseURL() + url
		}
		urls = append(urls, url)
	}

	requestLog(c).Info("images uploaded", zap.Int("count", len(urls)))
	return c.JSON(fiber.Map{
		"success":   true,
		"imageUrls": urls,
	})
}
