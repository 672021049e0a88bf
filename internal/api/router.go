package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Wealth-Manager-Backend/internal/api/middleware"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(svc service.Services, issuer *auth.TokenIssuer, logger zerolog.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	r.Use(custommiddleware.CORS(cfg.CORS))

	systemHandler := handlers.NewSystemHandler(svc.System)
	authHandler := handlers.NewAuthHandler(svc.User, issuer.TTL())
	accountHandler := handlers.NewAccountHandler(svc.Account)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	investmentHandler := handlers.NewInvestmentHandler(svc.Investment, svc.Valuation)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
	assetHandler := handlers.NewAssetHandler(svc.Asset)
	purchaseHandler := handlers.NewPurchaseHandler(svc.Purchase)
	summaryHandler := handlers.NewSummaryHandler(svc.Valuation)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.User, svc.Maintenance)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(custommiddleware.Authenticate(issuer)).Get("/me", authHandler.Me)
		})

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Authenticate(issuer))

			r.Get("/summary", summaryHandler.Summary)
			r.Post("/buy", purchaseHandler.Buy)

			r.Route("/account", func(r chi.Router) {
				r.Get("/", accountHandler.Accounts)
				r.Post("/", accountHandler.CreateAccount)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", accountHandler.Account)
					r.Put("/", accountHandler.UpdateAccount)
					r.Delete("/", accountHandler.DeleteAccount)
				})
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/", portfolioHandler.Portfolios)
				r.Post("/", portfolioHandler.CreatePortfolio)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", portfolioHandler.Portfolio)
					r.Put("/", portfolioHandler.UpdatePortfolio)
					r.Delete("/", portfolioHandler.DeletePortfolio)
				})
			})

			r.Route("/investment", func(r chi.Router) {
				r.Get("/", investmentHandler.Investments)
				r.Post("/", investmentHandler.CreateInvestment)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", investmentHandler.Investment)
					r.Get("/value", investmentHandler.Value)
					r.Put("/", investmentHandler.UpdateInvestment)
					r.Delete("/", investmentHandler.DeleteInvestment)
				})
			})

			r.Route("/transaction", func(r chi.Router) {
				r.Get("/", transactionHandler.AllTransactions)
				r.Post("/", transactionHandler.CreateTransaction)
				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Delete("/", transactionHandler.DeleteTransaction)
				})
			})

			r.Route("/asset", func(r chi.Router) {
				r.Get("/", assetHandler.Assets)
				r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", assetHandler.Asset)
			})
			r.Get("/asset-type", assetHandler.AssetTypes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(custommiddleware.RequireAdmin)

				r.Get("/overview", adminHandler.Overview)
				r.Post("/audit", adminHandler.Audit)

				r.Get("/user", adminHandler.Users)
				r.With(custommiddleware.ValidateUUIDMiddleware).Delete("/user/{uuid}", adminHandler.DeleteUser)

				r.Post("/asset", assetHandler.CreateAsset)
				r.With(custommiddleware.ValidateUUIDMiddleware).Put("/asset/{uuid}/price", assetHandler.UpdateAssetPrice)
				r.Post("/asset-type", assetHandler.CreateAssetType)
			})
		})
	})

	return r
}
