package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertexlab/identity-api/internal/core/ports"
)

// MessageHandler handles the user-to-user message exchange.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send delivers a message from the calling user to another registered user.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Receiver and text"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	username, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.service.Send(c.Request().Context(), username, req.ReceiverUsername, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, message)
}

// List returns every message, newest first.
//
// @Summary      List all messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Message
// @Failure      403  {object}  errorResponse
// @Router       /messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	messages, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// ListMine returns messages the calling user sent or received, newest first.
//
// @Summary      List my messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Message
// @Failure      401  {object}  errorResponse
// @Router       /messages/mine [get]
func (h *MessageHandler) ListMine(c echo.Context) error {
	username, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	messages, err := h.service.ListByParticipant(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}
