package models

type UserRole string
type ApplicationStatus string
type ChannelRequestStatus string
type PayoutStatus string
type SignatureMethod string
type Interest string

const (
	UserRoleCreator UserRole = "creator"
	UserRoleAdmin   UserRole = "admin"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	ChannelRequestPending  ChannelRequestStatus = "pending"
	ChannelRequestApproved ChannelRequestStatus = "approved"
	ChannelRequestRejected ChannelRequestStatus = "rejected"

	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"

	SignatureMethodType SignatureMethod = "type"
	SignatureMethodDraw SignatureMethod = "draw"
)

// Направления, на которые подается заявка
const (
	InterestChannelManagement   Interest = "channelManagement"
	InterestMusicPartnerProgram Interest = "musicPartnerProgram"
	InterestDigitalRights       Interest = "digitalRights"
	InterestOther               Interest = "other"
)

// AllInterests в порядке отображения формы
var AllInterests = []Interest{
	InterestChannelManagement,
	InterestMusicPartnerProgram,
	InterestDigitalRights,
	InterestOther,
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

func (s ChannelRequestStatus) IsValid() bool {
	switch s {
	case ChannelRequestPending, ChannelRequestApproved, ChannelRequestRejected:
		return true
	}
	return false
}

func (s PayoutStatus) IsValid() bool {
	return s == PayoutStatusPending || s == PayoutStatusCompleted
}

func (m SignatureMethod) IsValid() bool {
	return m == SignatureMethodType || m == SignatureMethodDraw
}

func (i Interest) IsValid() bool {
	for _, known := range AllInterests {
		if i == known {
			return true
		}
	}
	return false
}

// Типы уведомлений
const (
	NotificationTypeApplicationStatus = "application_status"
	NotificationTypeChannelStatus     = "channel_status"
	NotificationTypePayout            = "payout"
	NotificationTypeAnnouncement      = "announcement"
	NotificationTypeAccount           = "account"
)
