package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
)

type adminWalletServiceStub struct {
	wallet *entities.Wallet
	err    error
}

func (s adminWalletServiceStub) GetWallet(context.Context, uuid.UUID) (*entities.Wallet, error) {
	return s.wallet, s.err
}

type ledgerAuditServiceStub struct {
	report *entities.ReconciliationReport
	err    error
}

func (s ledgerAuditServiceStub) ReconcileWallet(context.Context, uuid.UUID) (*entities.ReconciliationReport, error) {
	return s.report, s.err
}

func newAdminRouter(h *AdminHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/wallets/:accountId", h.GetWallet)
	r.GET("/admin/wallets/:accountId/reconcile", h.ReconcileWallet)
	return r
}

func TestAdminHandler_InvalidAccountID(t *testing.T) {
	r := newAdminRouter(NewAdminHandler(adminWalletServiceStub{}, ledgerAuditServiceStub{}))

	for _, path := range []string{
		"/admin/wallets/not-a-uuid",
		"/admin/wallets/" + uuid.Nil.String() + "/reconcile",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestAdminHandler_GetWallet(t *testing.T) {
	accountID := uuid.New()
	wallet := entities.NewWallet(uuid.New(), accountID)
	wallet.Balance = decimal.NewFromInt(60)

	r := newAdminRouter(NewAdminHandler(adminWalletServiceStub{wallet: wallet}, ledgerAuditServiceStub{}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/wallets/"+accountID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":"60"`)

	missing := newAdminRouter(NewAdminHandler(adminWalletServiceStub{err: domainerrors.NotFound("wallet not found")}, ledgerAuditServiceStub{}))
	w = httptest.NewRecorder()
	missing.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/wallets/"+accountID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_ReconcileWallet(t *testing.T) {
	accountID := uuid.New()
	report := &entities.ReconciliationReport{
		AccountID:     accountID,
		StoredBalance: decimal.NewFromInt(75),
		LedgerBalance: decimal.NewFromInt(60),
		Drift:         decimal.NewFromInt(15),
		Consistent:    false,
	}

	r := newAdminRouter(NewAdminHandler(adminWalletServiceStub{}, ledgerAuditServiceStub{report: report}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/wallets/"+accountID.String()+"/reconcile", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"drift":"15"`)
	assert.Contains(t, w.Body.String(), `"consistent":false`)
}
