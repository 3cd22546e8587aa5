package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aulahub/lms-platform/internal/api/metrics"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

type ChatHandler struct {
	chatService ports.ChatService
}

func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type createConversationRequest struct {
	PeerID string `json:"peer_id" validate:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateOrGet opens the direct conversation with the given peer, creating
// it if the pair has never talked.
//
// @Summary      Open a direct conversation
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createConversationRequest  true  "Peer to talk to"
// @Success      200   {object}  ports.ConversationView
// @Success      201   {object}  ports.ConversationView
// @Failure      404   {object}  map[string]string
// @Router       /chat/conversations [post]
func (h *ChatHandler) CreateOrGet(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, created, err := h.chatService.CreateOrGet(c.Request().Context(), userID, req.PeerID)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, view)
}

// ListMine returns the caller's conversations, most recently active first.
//
// @Summary      List my conversations
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ConversationView
// @Router       /chat/conversations [get]
func (h *ChatHandler) ListMine(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	views, err := h.chatService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Send appends a message to a conversation the caller belongs to. Delivery
// to connected peers rides the websocket relay; this endpoint is the
// durable write.
//
// @Summary      Send a message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Conversation ID"
// @Param        body  body      sendMessageRequest  true  "Message text"
// @Success      201   {object}  domain.Message
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /chat/conversations/{id}/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	userID, _, err := ctxClaims(c)
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

	msg, err := h.chatService.Send(c.Request().Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.JSON(http.StatusCreated, msg)
}

// SearchPeers lists chat candidates with live presence flags.
//
// @Summary      List chat peers
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.PeerView
// @Router       /chat/peers [get]
func (h *ChatHandler) SearchPeers(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	peers, err := h.chatService.SearchPeers(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, peers)
}

// Delete permanently removes a conversation and its message log. Members
// only.
//
// @Summary      Delete a conversation
// @Tags         chat
// @Security     BearerAuth
// @Param        id  path  string  true  "Conversation ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /chat/conversations/{id} [delete]
func (h *ChatHandler) Delete(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.chatService.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
