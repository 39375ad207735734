package dto

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
