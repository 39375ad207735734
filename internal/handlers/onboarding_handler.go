package handlers

import (
	"net/http"

	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	*BaseHandler
	onboardingService services.OnboardingService
}

func NewOnboardingHandler(base *BaseHandler, onboardingService services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{
		BaseHandler:       base,
		onboardingService: onboardingService,
	}
}

func (h *OnboardingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	onboarding := rg.Group("/onboarding")
	{
		onboarding.GET("", h.GetState)
		onboarding.PUT("", h.SaveState)
		onboarding.POST("/code", h.RegenerateCode)
		onboarding.POST("/verify-channel", h.VerifyChannel)
		onboarding.POST("/interests", h.SubmitInterests)
		onboarding.POST("/submit", h.FinalSubmit)
	}
}

func (h *OnboardingHandler) GetState(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	state, err := h.onboardingService.GetState(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SaveState сохраняет черновик формы между перезагрузками страницы
func (h *OnboardingHandler) SaveState(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveOnboardingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	state, err := h.onboardingService.SaveState(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *OnboardingHandler) RegenerateCode(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.onboardingService.RegenerateCode(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OnboardingHandler) VerifyChannel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyChannelRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.onboardingService.VerifyChannel(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OnboardingHandler) SubmitInterests(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitInterestsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.onboardingService.SubmitInterests(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if resp.Submitted {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *OnboardingHandler) FinalSubmit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FinalSubmitRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.onboardingService.FinalSubmit(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}
