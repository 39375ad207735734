package handlers

import (
	"net/http"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	*BaseHandler
	channelService services.ChannelRequestService
}

func NewChannelHandler(base *BaseHandler, channelService services.ChannelRequestService) *ChannelHandler {
	return &ChannelHandler{
		BaseHandler:    base,
		channelService: channelService,
	}
}

func (h *ChannelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	channels := rg.Group("/channels")
	{
		channels.POST("", h.Create)
		channels.GET("", h.ListMine)
	}
}

func (h *ChannelHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	channels := admin.Group("/channels")
	channels.Use(middleware.RequirePermission(auth.PermChannelsReview))
	{
		channels.GET("", h.ListByStatus)
		channels.PATCH("/:id", h.Review)
	}
}

func (h *ChannelHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChannelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.channelService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *ChannelHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.channelService.ListMine(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *ChannelHandler) ListByStatus(c *gin.Context) {
	var req dto.ListChannelRequestsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.channelService.ListByStatus(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChannelHandler) Review(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewChannelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.channelService.Review(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
