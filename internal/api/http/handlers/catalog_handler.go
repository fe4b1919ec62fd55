package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/api/dto"
	"github.com/spec-kit/attendant-desk/internal/domain"
	"github.com/spec-kit/attendant-desk/internal/service"
)

// CatalogHandler exposes saved contacts and quick replies.
type CatalogHandler struct {
	contacts *service.ContactService
	replies  *service.QuickReplyService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(contacts *service.ContactService, replies *service.QuickReplyService) *CatalogHandler {
	return &CatalogHandler{contacts: contacts, replies: replies}
}

// ListContacts handles GET /api/contacts.
func (h *CatalogHandler) ListContacts(c *fiber.Ctx) error {
	items, err := h.contacts.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSavedContacts(items))
}

// SaveContact handles POST /api/contacts.
func (h *CatalogHandler) SaveContact(c *fiber.Ctx) error {
	var req dto.SavedContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if _, err := h.contacts.SaveName(c.UserContext(), req.ContactNumber, req.ContactName); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": dto.StatusSuccess})
}

// ListQuickReplies handles GET /api/quick_replies.
func (h *CatalogHandler) ListQuickReplies(c *fiber.Ctx) error {
	items, err := h.replies.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuickReplies(items))
}

// ListReadyMessages handles GET /api/ready_messages.
func (h *CatalogHandler) ListReadyMessages(c *fiber.Ctx) error {
	items, err := h.replies.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReadyMessages(items))
}

// CreateQuickReply handles POST /api/quick_replies.
func (h *CatalogHandler) CreateQuickReply(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return err
	}
	var req dto.QuickReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	reply, err := h.replies.Create(c.UserContext(), attendant, req.Name, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewQuickReplies([]domain.QuickReply{*reply})[0])
}
