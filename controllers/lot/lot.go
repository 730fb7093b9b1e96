package lotControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	stockControllers "github.com/pharmac-dev/pharmacy-api/controllers/stock"
	"github.com/pharmac-dev/pharmacy-api/models"
)

type CreateLotRequest struct {
	LotNumber     string    `json:"lot_number" binding:"required"`
	ProductID     uint      `json:"product_id" binding:"required"`
	InitialAmount int       `json:"initial_amount" binding:"required,gt=0"`
	Cost          float64   `json:"cost"`
	AddedDate     time.Time `json:"added_date"`
	ExpiryDate    time.Time `json:"expiry_date" binding:"required"`
}

// CreateLotHandler records a received batch. POST /lot
func CreateLotHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		added := req.AddedDate
		if added.IsZero() {
			added = time.Now()
		}

		lot := models.Lot{
			LotNumber:     req.LotNumber,
			ProductID:     req.ProductID,
			InitialAmount: req.InitialAmount,
			Cost:          req.Cost,
			AddedDate:     added,
			ExpiryDate:    req.ExpiryDate,
		}
		if err := db.Create(&lot).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create lot"})
			return
		}
		c.JSON(http.StatusOK, lot)
	}
}

// GetAllLotsHandler lists lots, newest receipt first. GET /lot
func GetAllLotsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lots []models.Lot
		if err := db.
			Preload("Product").
			Order("added_date DESC").
			Find(&lots).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, lots)
	}
}

// GetLotHandler returns one lot with its derived available quantity.
// GET /lot/:lotID
func GetLotHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("lotID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lotID must be numeric"})
			return
		}

		var lot models.Lot
		if err := db.Preload("Product").First(&lot, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		available, err := stockControllers.LotAvailable(db, lot.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"lot":       lot,
			"available": available,
		})
	}
}

// GetLotsByProductHandler lists a product's lots. GET /lot/product/:productID
func GetLotsByProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("productID")
		var lots []models.Lot
		if err := db.
			Where("product_id = ?", productID).
			Order("expiry_date ASC").
			Find(&lots).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, lots)
	}
}

// GetExpiringLotsHandler lists lots expiring within N days (default 90).
// GET /lot/expiring?days=N
func GetExpiringLotsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 90
		if raw := c.Query("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}
			days = parsed
		}

		cutoff := time.Now().AddDate(0, 0, days)
		var lots []models.Lot
		if err := db.
			Where("expiry_date <= ?", cutoff).
			Preload("Product").
			Order("expiry_date ASC").
			Find(&lots).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, lots)
	}
}
