package routes

import (
	analysesapi "chartsense-app/internal/api/analyses"
	authapi "chartsense-app/internal/api/auth"
	"chartsense-app/internal/api/billing"
	plansapi "chartsense-app/internal/api/plans"
	stripewebhooks "chartsense-app/internal/api/stripewebhook"
	subscriptionapi "chartsense-app/internal/api/subscription"
	usersapi "chartsense-app/internal/api/users"
	"chartsense-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook must see the raw body, so it stays outside the sanitizer.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/plans", plansapi.ListPlans)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.PUT("/profile", usersapi.UpdateProfile)

	auth.GET("/subscription", subscriptionapi.Get)
	auth.GET("/subscription/premium", subscriptionapi.CheckPremium)
	auth.POST("/create-checkout-session", billing.CreateCheckoutSession)

	auth.POST("/analyses/analyze", analysesapi.Analyze)
	auth.POST("/analyses", analysesapi.Create)
	auth.GET("/analyses", middleware.PremiumContext(), analysesapi.List)
	auth.GET("/analyses/:id", analysesapi.Get)
	auth.DELETE("/analyses/:id", analysesapi.Delete)
}
