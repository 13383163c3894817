package main

import (
	"github.com/gin-gonic/gin"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/handlers"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/middleware"
)

type routeDeps struct {
	walletHandler  *handlers.WalletHandler
	webhookHandler *handlers.WebhookHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Gateway callback (public, signature checked by the usecase)
		v1.POST("/wallet/stripe/webhook", d.webhookHandler.HandleStripeWebhook)

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("/balance", d.walletHandler.GetBalance)
			wallet.POST("/add-funds", middleware.IdempotencyMiddleware(), d.walletHandler.AddFunds)
			wallet.POST("/withdraw", middleware.IdempotencyMiddleware(), d.walletHandler.WithdrawFunds)
			wallet.GET("/transactions", d.walletHandler.ListTransactions)
			wallet.GET("/transactions/stats", d.walletHandler.GetTransactionStats)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/wallets/:accountId", d.adminHandler.GetWallet)
			admin.GET("/wallets/:accountId/reconcile", d.adminHandler.ReconcileWallet)
		}
	}
}
