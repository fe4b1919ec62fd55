package handlers

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/storage"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// UploadsHandler serves uploaded media publicly so the provider can fetch it.
type UploadsHandler struct {
	store *storage.LocalStore
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(store *storage.LocalStore) *UploadsHandler {
	return &UploadsHandler{store: store}
}

// Serve handles GET /uploads/:filename.
func (h *UploadsHandler) Serve(c *fiber.Ctx) error {
	path, err := h.store.Path(c.Params("filename"))
	if err != nil {
		return apperrors.NewNotFound("file", nil)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return apperrors.NewNotFound("file", nil)
	}
	return c.SendFile(path)
}
