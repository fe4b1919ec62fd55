package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/api/dto"
	"github.com/spec-kit/attendant-desk/internal/service"
	apperrors "github.com/spec-kit/attendant-desk/pkg/util/errorutil"
)

// MessagesHandler sends text and media to customers.
type MessagesHandler struct {
	messaging *service.MessagingService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messaging *service.MessagingService) *MessagesHandler {
	return &MessagesHandler{messaging: messaging}
}

// SendText handles POST /api/messages.
func (h *MessagesHandler) SendText(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	res, err := h.messaging.SendText(c.UserContext(), attendant, req.To, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(dto.SendResponse{Status: dto.StatusSuccess, SID: res.SID, MessageID: res.Message.ID})
}

// SendMedia handles POST /api/media (multipart: file, contact_number, caption).
func (h *MessagesHandler) SendMedia(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("Nenhum arquivo enviado.", map[string]any{"file": "required"})
	}
	contact := strings.TrimSpace(c.FormValue("contact_number"))
	if contact == "" {
		contact = strings.TrimSpace(c.FormValue("to"))
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	res, err := h.messaging.SendMedia(c.UserContext(), attendant, service.MediaInput{
		To:       contact,
		Caption:  c.FormValue("caption"),
		FileName: header.Filename,
		Content:  file,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.SendResponse{
		Status:    dto.StatusSuccess,
		SID:       res.SID,
		MessageID: res.Message.ID,
		MediaURL:  res.Message.MediaURL,
	})
}
