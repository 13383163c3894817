package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/middleware"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/response"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/utils"
)

type walletService interface {
	GetBalance(ctx context.Context, accountID uuid.UUID) (*entities.BalanceSummary, error)
	AddFunds(ctx context.Context, accountID uuid.UUID, role string, amount decimal.Decimal) (*entities.AddFundsResult, error)
	WithdrawFunds(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*entities.WithdrawResult, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, filter entities.WalletTransactionFilter, pagination utils.PaginationParams) ([]*entities.WalletTransaction, utils.PaginationMeta, error)
	GetTransactionStats(ctx context.Context, accountID uuid.UUID) (*entities.WalletTransactionStats, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase walletService) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// GetBalance returns the caller's balance
// GET /api/v1/wallet/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	summary, err := h.walletUsecase.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// AddFunds opens a checkout session for a top-up
// POST /api/v1/wallet/add-funds
func (h *WalletHandler) AddFunds(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.AmountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	role, _ := middleware.GetUserRole(c)
	result, err := h.walletUsecase.AddFunds(c.Request.Context(), accountID, role, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// WithdrawFunds debits the caller's wallet
// POST /api/v1/wallet/withdraw
func (h *WalletHandler) WithdrawFunds(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.AmountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	result, err := h.walletUsecase.WithdrawFunds(c.Request.Context(), accountID, input.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListTransactions lists the caller's ledger entries
// GET /api/v1/wallet/transactions?page=1&limit=20&offset=0&type=CREDIT&status=COMPLETED&search=top-up
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	pagination, err := parsePagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := entities.WalletTransactionFilter{
		Type:   entities.WalletTransactionType(strings.ToUpper(c.Query("type"))),
		Status: entities.WalletTransactionStatus(strings.ToUpper(c.Query("status"))),
		Search: c.Query("search"),
	}

	items, meta, err := h.walletUsecase.ListTransactions(c.Request.Context(), accountID, filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.WalletTransaction{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  meta,
	})
}

// GetTransactionStats aggregates the caller's ledger
// GET /api/v1/wallet/transactions/stats
func (h *WalletHandler) GetTransactionStats(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	stats, err := h.walletUsecase.GetTransactionStats(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// parsePagination reads page and limit, or limit and offset. A page wins over an offset.
func parsePagination(c *gin.Context) (utils.PaginationParams, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return utils.PaginationParams{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return utils.PaginationParams{}, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return utils.PaginationParams{}, err
	}
	if page < 0 || limit < 0 || offset < 0 {
		return utils.PaginationParams{}, domainerrors.BadRequest("page, limit and offset must not be negative")
	}

	params := utils.GetPaginationParams(page, limit)
	if page == 0 {
		params.Offset = offset
	}
	return params, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerrors.BadRequest("invalid " + name)
	}
	return v, nil
}
