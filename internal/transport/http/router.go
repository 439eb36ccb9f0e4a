package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/vendora/api/internal/application/account"
	"github.com/vendora/api/internal/application/otp"
	"github.com/vendora/api/internal/application/product"
	"github.com/vendora/api/internal/application/token"
	"github.com/vendora/api/internal/config"
	"github.com/vendora/api/internal/domain"
	"github.com/vendora/api/internal/transport/http/handler"
	appmiddleware "github.com/vendora/api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	otpSvc := otp.NewService(deps.KVStore, deps.Mailer, deps.SMSSender)
	resolver := account.NewResolver(deps.UserRepo, deps.SellerRepo)
	accountSvc := account.NewService(deps.UserRepo, deps.SellerRepo, otpSvc)
	tokenSvc := token.NewService(deps.JWTProvider, resolver)
	productSvc := product.NewService(deps.ShopRepo, deps.ProductRepo, deps.DiscountRepo, deps.SellerRepo, deps.S3Store)

	authH := handler.NewAuthHandler(accountSvc, tokenSvc, cfg)
	shopH := handler.NewShopHandler(productSvc)
	productH := handler.NewProductHandler(productSvc)
	healthH := handler.NewHealthHandler()

	authMw := appmiddleware.Auth(deps.JWTProvider, resolver)

	// 5 requests/second, burst of 10 — applied to the public auth
	// endpoints that can trigger mail dispatch or password checks.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	// ── Public routes ────────────────────────────────────────────────
	r.Get("/health-check/{action}", healthH.Ping)

	r.With(sensitiveRL.Limit).Post("/user-registration", authH.RegisterUser)
	r.With(sensitiveRL.Limit).Post("/verify-user", authH.VerifyUser)
	r.With(sensitiveRL.Limit).Post("/login", authH.LoginUser)
	r.With(sensitiveRL.Limit).Post("/seller-registration", authH.RegisterSeller)
	r.With(sensitiveRL.Limit).Post("/verify-seller", authH.VerifySeller)
	r.With(sensitiveRL.Limit).Post("/login-seller", authH.LoginSeller)

	r.With(sensitiveRL.Limit).Post("/forgot-password", authH.ForgotPassword(domain.RoleBuyer))
	r.With(sensitiveRL.Limit).Post("/verify-forgot-password-otp", authH.VerifyForgotPasswordOTP)
	r.With(sensitiveRL.Limit).Post("/reset-password", authH.ResetPassword(domain.RoleBuyer))
	r.With(sensitiveRL.Limit).Post("/seller/forgot-password", authH.ForgotPassword(domain.RoleSeller))
	r.With(sensitiveRL.Limit).Post("/seller/reset-password", authH.ResetPassword(domain.RoleSeller))

	r.Post("/refresh-token", authH.Refresh)

	r.Get("/products", productH.List)
	r.Get("/products/{id}", productH.Get)
	r.Get("/shops/{id}", shopH.Get)

	// ── Authenticated routes ─────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Post("/logout", authH.Logout)
		r.With(appmiddleware.RequireRole(domain.RoleBuyer)).Get("/auth-user", authH.Me)
		r.With(appmiddleware.RequireRole(domain.RoleSeller)).Get("/auth-seller", authH.Me)

		// Seller-only catalog management
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireRole(domain.RoleSeller))

			r.Post("/create-shop", shopH.Create)

			r.Post("/products", productH.Create)
			r.Get("/seller/products", productH.ListMine)
			r.Put("/products/{id}", productH.Update)
			r.Delete("/products/{id}", productH.Delete)
			r.Post("/products/{id}/images", productH.AttachImage)
			r.Delete("/products/{id}/images", productH.RemoveImage)

			r.Post("/discount-codes", productH.CreateDiscountCode)
			r.Get("/discount-codes", productH.ListDiscountCodes)
			r.Delete("/discount-codes/{id}", productH.DeleteDiscountCode)
		})
	})

	return r
}
