package handlers

import (
	"net/http"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	*BaseHandler
	balanceService services.BalanceService
}

func NewBalanceHandler(base *BaseHandler, balanceService services.BalanceService) *BalanceHandler {
	return &BalanceHandler{
		BaseHandler:    base,
		balanceService: balanceService,
	}
}

func (h *BalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/balance", h.GetBalance)

	contract := rg.Group("/contract")
	{
		contract.GET("", h.GetContract)
		contract.PUT("", h.SaveContract)
	}
}

func (h *BalanceHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	payouts := admin.Group("/payouts")
	payouts.Use(middleware.RequirePermission(auth.PermPayoutsManage))
	{
		payouts.POST("", h.CreatePayout)
		payouts.POST("/:id/complete", h.CompletePayout)
	}
}

func (h *BalanceHandler) GetBalance(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.GetBalance(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetContract - договора может еще не быть, тогда contract: null
func (h *BalanceHandler) GetContract(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	contract, err := h.balanceService.GetContract(h.GetDB(c), userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrContractNotFound) {
			c.JSON(http.StatusOK, gin.H{"contract": nil})
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

func (h *BalanceHandler) SaveContract(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ContractRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contract, err := h.balanceService.SaveContract(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contract": contract})
}

func (h *BalanceHandler) CreatePayout(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePayoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payout, err := h.balanceService.CreatePayout(h.GetDB(c), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

func (h *BalanceHandler) CompletePayout(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	payout, err := h.balanceService.CompletePayout(h.GetDB(c), adminID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payout)
}
