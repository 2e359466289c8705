// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"coderr/internal/delivery/http/middleware"
	"coderr/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	ProfileHandler  *handler.ProfileHandler
	OfferHandler    *handler.OfferHandler
	OrderHandler    *handler.OrderHandler
	ReviewHandler   *handler.ReviewHandler
	PlatformHandler *handler.PlatformHandler
	MediaHandler    *handler.MediaHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
// Trailing slashes are stripped before routing.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params
	authenticate := p.AuthMiddleware.Authenticate

	e.GET("/health", p.PlatformHandler.Health)
	e.GET("/media/*", p.MediaHandler.Serve)

	api := e.Group("/api")

	// Public routes
	api.POST("/registration", p.AuthHandler.Register)
	api.POST("/login", p.AuthHandler.Login)
	api.GET("/offers", p.OfferHandler.ListOffers)
	api.GET("/base-info", p.PlatformHandler.BaseInfo)

	// Everything else requires a bearer token
	secured := api.Group("", authenticate)
	{
		secured.GET("/profile/:id", p.ProfileHandler.GetProfile)
		secured.PATCH("/profile/:id", p.ProfileHandler.UpdateProfile)
		secured.PUT("/profile/:id/file", p.ProfileHandler.UploadPicture)
		secured.GET("/profiles/business", p.ProfileHandler.ListBusinessProfiles)
		secured.GET("/profiles/customer", p.ProfileHandler.ListCustomerProfiles)
	}
	{
		secured.POST("/offers", p.OfferHandler.CreateOffer)
		secured.GET("/offers/:id", p.OfferHandler.GetOffer)
		secured.PATCH("/offers/:id", p.OfferHandler.UpdateOffer)
		secured.DELETE("/offers/:id", p.OfferHandler.DeleteOffer)
		secured.PUT("/offers/:id/image", p.OfferHandler.UploadImage)
		secured.GET("/offerdetails/:id", p.OfferHandler.GetOfferDetail)
	}
	{
		secured.GET("/orders", p.OrderHandler.ListOrders)
		secured.POST("/orders", p.OrderHandler.CreateOrder)
		secured.GET("/orders/:id", p.OrderHandler.GetOrder)
		secured.PATCH("/orders/:id", p.OrderHandler.UpdateOrderStatus)
		secured.DELETE("/orders/:id", p.OrderHandler.DeleteOrder)
		secured.GET("/order-count/:business_user_id", p.OrderHandler.OrderCount)
		secured.GET("/completed-order-count/:business_user_id", p.OrderHandler.CompletedOrderCount)
	}
	{
		secured.GET("/reviews", p.ReviewHandler.ListReviews)
		secured.POST("/reviews", p.ReviewHandler.CreateReview)
		secured.GET("/reviews/:id", p.ReviewHandler.GetReview)
		secured.PATCH("/reviews/:id", p.ReviewHandler.UpdateReview)
		secured.DELETE("/reviews/:id", p.ReviewHandler.DeleteReview)
	}
}
