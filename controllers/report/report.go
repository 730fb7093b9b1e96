package reportControllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// AggregateRevenue groups paid orders by day ("2006-01-02") or month
// ("2006-01"), summing total_amount per bucket with decimal arithmetic and
// rounding to two places. Recomputed on every call; there is no cache.
func AggregateRevenue(orders []models.Order, granularity string) []RevenuePoint {
	layout := "2006-01-02"
	if granularity == "month" {
		layout = "2006-01"
	}

	buckets := make(map[string]decimal.Decimal)
	for _, order := range orders {
		key := order.CreatedAt.Format(layout)
		buckets[key] = buckets[key].Add(decimal.NewFromFloat(order.TotalAmount))
	}

	points := make([]RevenuePoint, 0, len(buckets))
	for date, sum := range buckets {
		points = append(points, RevenuePoint{
			Date:    date,
			Revenue: sum.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

func paidOrders(db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.Where("status = ?", models.OrderStatusPaid).Find(&orders).Error
	return orders, err
}

// RevenueHandler serves the chart data. GET /report/revenue?granularity=day|month
func RevenueHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		granularity := c.DefaultQuery("granularity", "day")
		if granularity != "day" && granularity != "month" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "granularity must be day or month"})
			return
		}

		orders, err := paidOrders(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, AggregateRevenue(orders, granularity))
	}
}

// ExportRevenueHandler streams the same buckets as an xlsx download.
// GET /report/revenue/export?granularity=day|month
func ExportRevenueHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		granularity := c.DefaultQuery("granularity", "day")
		if granularity != "day" && granularity != "month" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "granularity must be day or month"})
			return
		}

		orders, err := paidOrders(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		points := AggregateRevenue(orders, granularity)

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Revenue")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headerRow := sheet.AddRow()
		headerRow.AddCell().SetValue("Date")
		headerRow.AddCell().SetValue("Revenue")
		for _, p := range points {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.Date)
			row.AddCell().SetValue(p.Revenue)
		}

		c.Header("Content-Disposition", "attachment; filename=revenue.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
