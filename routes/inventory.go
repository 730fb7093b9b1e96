package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	lotControllers "github.com/pharmac-dev/pharmacy-api/controllers/lot"
	stockControllers "github.com/pharmac-dev/pharmacy-api/controllers/stock"
)

func SetupInventoryRoutes(r *gin.Engine, db *gorm.DB) {
	stock := r.Group("/stock-transaction")
	{
		stock.POST("", stockControllers.CreateStockTransactionHandler(db))
		stock.GET("", stockControllers.GetAllStockTransactionsHandler(db))
		stock.GET("/lot/:lotID", stockControllers.GetStockTransactionsByLotHandler(db))
		stock.GET("/product/:productID", stockControllers.GetStockTransactionsByProductHandler(db))
		stock.GET("/filter", stockControllers.FilterStockTransactionsHandler(db))
	}

	lots := r.Group("/lot")
	{
		lots.POST("", lotControllers.CreateLotHandler(db))
		lots.GET("", lotControllers.GetAllLotsHandler(db))
		lots.GET("/expiring", lotControllers.GetExpiringLotsHandler(db))
		lots.GET("/product/:productID", lotControllers.GetLotsByProductHandler(db))
		lots.GET("/:lotID", lotControllers.GetLotHandler(db))
	}
}
