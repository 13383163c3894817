package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/response"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/utils"
)

type adminWalletService interface {
	GetWallet(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error)
}

type ledgerAuditService interface {
	ReconcileWallet(ctx context.Context, accountID uuid.UUID) (*entities.ReconciliationReport, error)
}

// AdminHandler serves the admin view of wallets
type AdminHandler struct {
	walletUsecase adminWalletService
	auditUsecase  ledgerAuditService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(walletUsecase adminWalletService, auditUsecase ledgerAuditService) *AdminHandler {
	return &AdminHandler{
		walletUsecase: walletUsecase,
		auditUsecase:  auditUsecase,
	}
}

// GetWallet returns an account's wallet record
// GET /api/v1/admin/wallets/:accountId
func (h *AdminHandler) GetWallet(c *gin.Context) {
	accountID, ok := utils.ParseUUID(c.Param("accountId"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid account ID"))
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}

// ReconcileWallet compares a wallet's balance with its ledger
// GET /api/v1/admin/wallets/:accountId/reconcile
func (h *AdminHandler) ReconcileWallet(c *gin.Context) {
	accountID, ok := utils.ParseUUID(c.Param("accountId"))
	if !ok {
		response.Error(c, domainerrors.BadRequest("Invalid account ID"))
		return
	}

	report, err := h.auditUsecase.ReconcileWallet(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}
