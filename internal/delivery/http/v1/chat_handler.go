package v1

import (
	"net/http"

	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/logger"
	"skillmates-backend/pkg/realtime"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatUC domain.ChatUsecase
	hub    *realtime.Hub
}

func NewChatHandler(r *gin.RouterGroup, chatUC domain.ChatUsecase, hub *realtime.Hub) {
	handler := &ChatHandler{chatUC: chatUC, hub: hub}

	chats := r.Group("/chats")
	{
		chats.GET("", handler.ListChats)
		chats.GET("/ws", handler.Connect)
		chats.GET("/:id/messages", handler.GetMessages)
		chats.POST("/:id/messages", handler.SendMessage)
		chats.DELETE("/:id", handler.DeleteChat)
	}
}

// ListChats godoc
// @Summary      List chats
// @Description  Most recently active first, with the other participant's summary.
// @Tags         chats
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ChatSummary}
// @Router       /chats [get]
// @Security     BearerAuth
func (h *ChatHandler) ListChats(c *gin.Context) {
	chats, err := h.chatUC.ListChats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Chats", chats)
}

// GetMessages godoc
// @Summary      Chat messages
// @Tags         chats
// @Produce      json
// @Param        id   path      string  true  "Chat ID"
// @Success      200  {object}  response.Response{data=[]domain.Message}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /chats/{id}/messages [get]
// @Security     BearerAuth
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatUC.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Messages", messages)
}

// SendMessage godoc
// @Summary      Send a message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Chat ID"
// @Param        request  body      domain.SendMessageRequest  true  "Message"
// @Success      201      {object}  response.Response{data=domain.Message}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /chats/{id}/messages [post]
// @Security     BearerAuth
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	msg, err := h.chatUC.SendMessage(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// DeleteChat godoc
// @Summary      Delete a chat
// @Tags         chats
// @Produce      json
// @Param        id   path      string  true  "Chat ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /chats/{id} [delete]
// @Security     BearerAuth
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	if err := h.chatUC.DeleteChat(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Chat deleted", nil)
}

// Connect godoc
// @Summary      Realtime events
// @Description  Websocket stream of message, chat and connection events for the caller.
// @Tags         chats
// @Param        token  query  string  false  "Session token when cookies are unavailable"
// @Success      101
// @Router       /chats/ws [get]
// @Security     BearerAuth
func (h *ChatHandler) Connect(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	// Upgrade failures have already been answered by the upgrader.
	if err := h.hub.Serve(c.Writer, c.Request, userID); err != nil {
		logger.Log.Warn("websocket upgrade failed", "user_id", userID, "error", err)
	}
}
