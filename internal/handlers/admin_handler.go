package handlers

import (
	"net/http"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	lookup := admin.Group("")
	lookup.Use(middleware.RequirePermission(auth.PermUsersLookup))
	{
		lookup.POST("/users/:id/lookup", h.LookupUser)
		lookup.GET("/access-logs", h.ListAccessLogs)
	}
}

// LookupUser отдает данные пользователя и пишет запись в журнал доступа
func (h *AdminHandler) LookupUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UserLookupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.adminService.LookupUser(c.Request.Context(), h.GetDB(c), adminID, c.Param("id"), &req, c.ClientIP())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ListAccessLogs(c *gin.Context) {
	var req dto.AccessLogListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.adminService.ListAccessLogs(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
