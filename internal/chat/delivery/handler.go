package delivery

import (
	"errors"
	"net/http"

	"proview-backend/internal/chat/dto"
	"proview-backend/internal/chat/usecase"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

// GetChats returns the drawer list for the authenticated user
// GET /api/chats
func (h *ChatHandler) GetChats(c *gin.Context) {
	userID := c.GetString("userID")

	chats, err := h.chatUsecase.ListChats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// CreateChat inserts a pending chat row for a new query
// POST /api/chats
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chatUsecase.CreateChat(userID, req.Query)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, chat)
}

// GetChatByID returns the persisted summary and sources
// GET /api/chats/:id
func (h *ChatHandler) GetChatByID(c *gin.Context) {
	userID := c.GetString("userID")
	chatID := c.Param("id")

	detail, err := h.chatUsecase.GetChatDetail(userID, chatID)
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteChat removes a chat owned by the caller
// DELETE /api/chats/:id
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	userID := c.GetString("userID")
	chatID := c.Param("id")

	if err := h.chatUsecase.DeleteChat(userID, chatID); err != nil {
		h.writeChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}

// Ask runs the AI pass for a prompt
// POST /api/ask
func (h *ChatHandler) Ask(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatUsecase.Ask(c.Request.Context(), userID, req.ChatID, req.Prompt)
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Retry replays the chat's stored query
// POST /api/chats/:id/retry
func (h *ChatHandler) Retry(c *gin.Context) {
	userID := c.GetString("userID")
	chatID := c.Param("id")

	resp, err := h.chatUsecase.Retry(c.Request.Context(), userID, chatID)
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
	case errors.Is(err, usecase.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, usecase.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
