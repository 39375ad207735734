package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	OnboardingHandler   *OnboardingHandler
	ApplicationHandler  *ApplicationHandler
	MessageHandler      *MessageHandler
	NotificationHandler *NotificationHandler
	BanHandler          *BanHandler
	BalanceHandler      *BalanceHandler
	ChannelHandler      *ChannelHandler
	AdminHandler        *AdminHandler
	DashboardHandler    *DashboardHandler
	FileHandler         *FileHandler
}
