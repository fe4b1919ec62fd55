package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendant-desk/internal/api/dto"
	"github.com/spec-kit/attendant-desk/internal/service"
)

// ConversationsHandler exposes the conversation list, history and handoff endpoints.
type ConversationsHandler struct {
	conversations *service.ConversationService
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(conversations *service.ConversationService) *ConversationsHandler {
	return &ConversationsHandler{conversations: conversations}
}

// List handles GET /api/conversations.
func (h *ConversationsHandler) List(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return err
	}
	items, err := h.conversations.ListActive(c.UserContext(), attendant.Sector)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewConversationSummaries(items))
}

// Detail handles GET /api/conversations/:contact.
func (h *ConversationsHandler) Detail(c *fiber.Ctx) error {
	contact, err := url.PathUnescape(c.Params("contact"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid contact")
	}
	history, err := h.conversations.History(c.UserContext(), contact)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewConversationDetail(history))
}

// Start handles POST /api/conversations/start.
func (h *ConversationsHandler) Start(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return err
	}
	var req dto.StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	res, err := h.conversations.Start(c.UserContext(), attendant, req.ContactNumber, req.InitialMessage)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SendResponse{
		Status:    dto.StatusSuccess,
		SID:       res.SID,
		MessageID: res.Message.ID,
	})
}

// Close handles POST /api/conversations/close.
func (h *ConversationsHandler) Close(c *fiber.Ctx) error {
	attendant, err := currentAttendant(c)
	if err != nil {
		return err
	}
	var req dto.CloseConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	msg, err := h.conversations.Close(c.UserContext(), attendant, req.ContactNumber)
	if err != nil {
		return err
	}
	return c.JSON(dto.SendResponse{Status: dto.StatusSuccess, MessageID: msg.ID})
}
