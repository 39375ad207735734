package dto

// DashboardSummary - все, что нужно главной странице кабинета за один запрос
type DashboardSummary struct {
	User                *UserResponse          `json:"user"`
	Application         *MyApplicationResponse `json:"application,omitempty"`
	UnreadNotifications int64                  `json:"unread_notifications"`
	HasUnreadMessages   bool                   `json:"has_unread_messages"`
	UnreadMessages      int64                  `json:"unread_messages"`
	Banned              bool                   `json:"banned"`
	BanReason           string                 `json:"ban_reason,omitempty"`
	Balance             PayoutSummaryResponse  `json:"balance"`
	Analytics           AnalyticsPlaceholder   `json:"analytics"`
}

// AnalyticsPlaceholder - графики пока не подключены, отдаются нули
type AnalyticsPlaceholder struct {
	Views       int64   `json:"views"`
	Subscribers int64   `json:"subscribers"`
	Revenue     float64 `json:"revenue"`
}
