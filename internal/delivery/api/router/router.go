// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	CatalogHandler    *handler.CatalogHandler
	ReviewHandler     *handler.ReviewHandler
	CartHandler       *handler.CartHandler
	OrderHandler      *handler.OrderHandler
	AddressHandler    *handler.AddressHandler
	AdminHandler      *handler.AdminHandler
	AuthMiddleware    *middleware.AuthMiddleware
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	catalogHandler    *handler.CatalogHandler
	reviewHandler     *handler.ReviewHandler
	cartHandler       *handler.CartHandler
	orderHandler      *handler.OrderHandler
	addressHandler    *handler.AddressHandler
	adminHandler      *handler.AdminHandler
	authMiddleware    *middleware.AuthMiddleware
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		catalogHandler:    params.CatalogHandler,
		reviewHandler:     params.ReviewHandler,
		cartHandler:       params.CartHandler,
		orderHandler:      params.OrderHandler,
		addressHandler:    params.AddressHandler,
		adminHandler:      params.AdminHandler,
		authMiddleware:    params.AuthMiddleware,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	auth := r.authMiddleware.Authenticate
	admin := r.authMiddleware.RequireRole(entity.RoleAdmin)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.GET("/profile", r.authHandler.Profile, auth)
	}

	categoriesGroup := api.Group("/categories")
	{
		categoriesGroup.GET("", r.catalogHandler.ListCategories)
		categoriesGroup.GET("/:id", r.catalogHandler.GetCategory)
		categoriesGroup.POST("", r.catalogHandler.CreateCategory, auth, admin)
	}

	productsGroup := api.Group("/products")
	{
		productsGroup.GET("", r.catalogHandler.ListProducts)
		productsGroup.GET("/:id", r.catalogHandler.GetProduct)
		productsGroup.POST("", r.catalogHandler.CreateProduct, auth, admin)
		productsGroup.PUT("/:id", r.catalogHandler.UpdateProduct, auth, admin)

		productsGroup.GET("/:id/variants", r.catalogHandler.ListVariants)
		productsGroup.POST("/:id/variants", r.catalogHandler.CreateVariant, auth, admin)

		productsGroup.GET("/:id/reviews", r.reviewHandler.ListReviews)
		productsGroup.POST("/:id/reviews", r.reviewHandler.CreateReview, auth)
	}

	// Cart routes work for anonymous shoppers through the session cookie
	cartGroup := api.Group("/cart")
	cartGroup.Use(r.sessionMiddleware.Process)
	cartGroup.Use(r.authMiddleware.Identify)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:id", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
	}

	ordersGroup := api.Group("/orders")
	ordersGroup.Use(r.sessionMiddleware.Process)
	ordersGroup.Use(auth)
	{
		ordersGroup.GET("", r.orderHandler.ListOrders)
		ordersGroup.POST("", r.orderHandler.Checkout)
		ordersGroup.GET("/:id", r.orderHandler.GetOrder)
		ordersGroup.GET("/:id/qr", r.orderHandler.PickupQR)
		ordersGroup.PUT("/:id/status", r.orderHandler.UpdateStatus, admin)
	}

	addressesGroup := api.Group("/addresses")
	addressesGroup.Use(auth)
	{
		addressesGroup.GET("", r.addressHandler.ListAddresses)
		addressesGroup.POST("", r.addressHandler.CreateAddress)
		addressesGroup.PUT("/:id", r.addressHandler.UpdateAddress)
		addressesGroup.DELETE("/:id", r.addressHandler.DeleteAddress)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(auth, admin)
	{
		adminGroup.GET("/products/export", r.adminHandler.ExportProducts)
		adminGroup.POST("/products/import", r.adminHandler.ImportProducts)
	}
}
