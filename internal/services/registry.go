package services

import (
	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/ws"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService           AuthService
	ProfileService        ProfileService
	OnboardingService     OnboardingService
	ApplicationService    ApplicationService
	MessageService        MessageService
	NotificationService   NotificationService
	BanService            BanService
	BalanceService        BalanceService
	ChannelRequestService ChannelRequestService
	AdminService          AdminService
	DashboardService      DashboardService
	EmailService          email.Provider
	Storage               storage.Storage
	Realtime              *ws.WebSocketManager
}
