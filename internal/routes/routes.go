package routes

import (
	"creatorhub_backend/internal/handlers"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
//
//	/api/v1            публичные (auth, files)
//	/api/v1 + auth     доступно и заблокированным (me, bans/me, dashboard)
//	/api/v1 + BanGuard кабинет создателя
//	/api/v1/admin      панель администратора, права проверяются на группах
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	bans middleware.BanChecker,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.FileHandler.RegisterRoutes(api)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		appHandlers.BanHandler.RegisterRoutes(authed)
		appHandlers.DashboardHandler.RegisterRoutes(authed)
	}

	active := api.Group("")
	active.Use(middleware.AuthMiddleware(), middleware.BanGuard(bans))
	{
		appHandlers.ProfileHandler.RegisterRoutes(active)
		appHandlers.OnboardingHandler.RegisterRoutes(active)
		appHandlers.ApplicationHandler.RegisterRoutes(active)
		appHandlers.MessageHandler.RegisterRoutes(active)
		appHandlers.NotificationHandler.RegisterRoutes(active)
		appHandlers.BalanceHandler.RegisterRoutes(active)
		appHandlers.ChannelHandler.RegisterRoutes(active)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		appHandlers.ApplicationHandler.RegisterAdminRoutes(admin)
		appHandlers.MessageHandler.RegisterAdminRoutes(admin)
		appHandlers.NotificationHandler.RegisterAdminRoutes(admin)
		appHandlers.BanHandler.RegisterAdminRoutes(admin)
		appHandlers.BalanceHandler.RegisterAdminRoutes(admin)
		appHandlers.ChannelHandler.RegisterAdminRoutes(admin)
		appHandlers.AdminHandler.RegisterAdminRoutes(admin)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
