package handlers

import (
	"net/http"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BanHandler struct {
	*BaseHandler
	banService services.BanService
}

func NewBanHandler(base *BaseHandler, banService services.BanService) *BanHandler {
	return &BanHandler{
		BaseHandler: base,
		banService:  banService,
	}
}

// RegisterRoutes подключается к группе без BanGuard: заблокированный
// пользователь должен видеть причину блокировки.
func (h *BanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bans/me", h.MyStatus)
}

func (h *BanHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	bans := admin.Group("")
	bans.Use(middleware.RequirePermission(auth.PermBansManage))
	{
		bans.GET("/bans", h.List)
		bans.POST("/users/:id/ban", h.Ban)
		bans.DELETE("/users/:id/ban", h.Unban)
	}
}

func (h *BanHandler) MyStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status, err := h.banService.Status(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *BanHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.banService.List(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BanHandler) Ban(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BanUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ban, err := h.banService.Ban(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ban)
}

func (h *BanHandler) Unban(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.banService.Unban(c.Request.Context(), h.GetDB(c), adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unbanned"})
}
