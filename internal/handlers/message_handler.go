package handlers

import (
	"net/http"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(base *BaseHandler, messageService services.MessageService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    base,
		messageService: messageService,
	}
}

// RegisterRoutes - переписка с поддержкой. Для создателя собеседник всегда
// администратор поддержки, peer_id нужен только администраторам.
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	{
		messages.GET("", h.GetThread)
		messages.POST("", h.Send)
		messages.POST("/read", h.MarkRead)
		messages.GET("/unread", h.Unread)
	}
}

func (h *MessageHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/conversations", middleware.RequirePermission(auth.PermSupportInbox), h.ListConversations)
}

func (h *MessageHandler) GetThread(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	thread, err := h.messageService.GetThread(h.GetDB(c), userID, h.IsAdmin(c), c.Query("peer_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// Send принимает multipart форму: content, receiver_id и необязательный файл image
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	image, closer, err := formImage(c, "image")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	thread, err := h.messageService.Send(c.Request.Context(), h.GetDB(c), userID, h.IsAdmin(c), &req, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, thread)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.messageService.MarkThreadRead(h.GetDB(c), userID, h.IsAdmin(c), c.Query("peer_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) Unread(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.messageService.Unread(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConversationListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	list, err := h.messageService.ListConversations(h.GetDB(c), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": list})
}
