package main

import (
	"github.com/gin-gonic/gin"

	"donation-platform.backend/internal/interfaces/http/handlers"
	"donation-platform.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	charityHandler  *handlers.CharityHandler
	donationHandler *handlers.DonationHandler
	adminHandler    *handlers.AdminHandler
	authMiddleware  gin.HandlerFunc
	authRateLimit   gin.HandlerFunc
	requestLimit    gin.HandlerFunc
	charityCache    gin.HandlerFunc
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", d.authRateLimit, d.authHandler.Register)
			users.POST("/login", d.authRateLimit, d.authHandler.Login)
			users.GET("/me", d.authMiddleware, d.authHandler.Me)
			users.GET("/me/donations", d.authMiddleware, d.authHandler.MyDonations)
		}

		charities := api.Group("/charities")
		{
			charities.GET("", d.charityCache, d.charityHandler.ListCharities)
			charities.GET("/:id", d.charityHandler.GetCharity)
			charities.POST("", d.authMiddleware, middleware.RequireAdmin(), d.charityHandler.CreateCharity)
			charities.POST("/request", d.requestLimit, d.charityHandler.RequestCharity)
		}

		donations := api.Group("/donations")
		{
			donations.POST("", middleware.IdempotencyMiddleware(), d.donationHandler.CreateDonation)
			donations.GET("", d.donationHandler.ListDonations)
			donations.GET("/receipt/:receiptNumber", d.donationHandler.GetReceipt)
			donations.GET("/:id", d.donationHandler.GetDonation)
		}

		admin := api.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/summary", d.adminHandler.Summary)
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.DELETE("/users/:id", d.adminHandler.DeleteUser)
			admin.GET("/donations", d.adminHandler.ListDonations)
			admin.GET("/charities", d.adminHandler.ListCharities)
			admin.PUT("/charities/:id/verify", d.adminHandler.VerifyCharity)
			admin.POST("/reconcile", d.adminHandler.Reconcile)
		}
	}
}
