package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/pharmac-dev/pharmacy-api/controllers/order"
	paymentControllers "github.com/pharmac-dev/pharmacy-api/controllers/payment"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	orders := r.Group("/order")
	{
		// Checkout: persists the order, obtains intent + QR, broadcasts
		orders.POST("/createOrder", orderControllers.CreateOrderHandler(db, deps.Gateway, deps.Hub, deps.Config, deps.Logger))

		// Notification-feed reconstruction for late websocket joiners
		orders.GET("/latest", orderControllers.GetLatestOrdersHandler(db))

		// Orders from the last 24 hours
		orders.GET("/recent", orderControllers.GetRecentOrdersHandler(db))

		orders.GET("/", orderControllers.GetAllOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
	}

	payments := r.Group("/payment")
	{
		payments.POST("/check", paymentControllers.CheckPaymentHandler(db, deps.Gateway, deps.Hub, deps.Logger))
	}

	// websocket endpoint for the customer display and admin notifications
	r.GET("/ws", deps.Hub.HandleConnection)
}
