package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reportControllers "github.com/pharmac-dev/pharmacy-api/controllers/report"
)

func SetupReportRoutes(r *gin.Engine, db *gorm.DB) {
	report := r.Group("/report")
	{
		report.GET("/revenue", reportControllers.RevenueHandler(db))
		report.GET("/revenue/export", reportControllers.ExportRevenueHandler(db))
	}
}
