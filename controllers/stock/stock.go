package stockControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type CreateStockTransactionRequest struct {
	Type     string    `json:"type" binding:"required"` // IN, OUT, ADJUST
	Quantity int       `json:"quantity" binding:"required"`
	Date     time.Time `json:"date"`
	RefNo    string    `json:"ref_no"`
	Note     string    `json:"note"`
	LotID    uint      `json:"lot_id" binding:"required"`
}

func mapTransactionType(raw string) (models.StockTransactionType, error) {
	switch strings.ToUpper(raw) {
	case string(models.StockIn):
		return models.StockIn, nil
	case string(models.StockOut):
		return models.StockOut, nil
	case string(models.StockAdjust):
		return models.StockAdjust, nil
	default:
		return "", errors.New("invalid transaction type, must be IN, OUT or ADJUST")
	}
}

// LotAvailable returns the derived on-hand quantity for a lot: the initial
// amount plus the signed ledger sum. IN adds, OUT subtracts, ADJUST carries
// its own sign.
func LotAvailable(db *gorm.DB, lotID uint) (int, error) {
	var lot models.Lot
	if err := db.First(&lot, "id = ?", lotID).Error; err != nil {
		return 0, err
	}

	var sum int
	err := db.Model(&models.StockTransaction{}).
		Where("lot_id = ?", lotID).
		Select("COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity WHEN type = 'OUT' THEN -quantity ELSE quantity END), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return lot.InitialAmount + sum, nil
}

// CreateStockTransactionHandler appends a ledger row. OUT rows that would
// take the lot below zero are rejected; corrections go through ADJUST.
// POST /stock-transaction
func CreateStockTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStockTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		txType, err := mapTransactionType(req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if (txType == models.StockIn || txType == models.StockOut) && req.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive for IN and OUT transactions"})
			return
		}

		var lot models.Lot
		if err := db.First(&lot, "id = ?", req.LotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "lot not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if txType == models.StockOut {
			available, err := LotAvailable(db, req.LotID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if req.Quantity > available {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "insufficient stock in lot",
					"available": available,
				})
				return
			}
		}

		date := req.Date
		if date.IsZero() {
			date = time.Now()
		}

		tx := models.StockTransaction{
			Type:     txType,
			Quantity: req.Quantity,
			Date:     date,
			RefNo:    req.RefNo,
			Note:     req.Note,
			LotID:    req.LotID,
		}
		if err := db.Create(&tx).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create stock transaction"})
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

// GetAllStockTransactionsHandler lists the full ledger, newest first.
// GET /stock-transaction
func GetAllStockTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var txs []models.StockTransaction
		if err := db.
			Preload("Lot").
			Preload("Lot.Product").
			Order("date DESC").
			Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// GetStockTransactionsByLotHandler lists the ledger for one lot.
// GET /stock-transaction/lot/:lotID
func GetStockTransactionsByLotHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lotID := c.Param("lotID")
		var txs []models.StockTransaction
		if err := db.
			Where("lot_id = ?", lotID).
			Preload("Lot").
			Order("date DESC").
			Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// GetStockTransactionsByProductHandler lists ledger rows across all lots of
// a product. GET /stock-transaction/product/:productID
func GetStockTransactionsByProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("productID")
		var txs []models.StockTransaction
		if err := db.
			Joins("JOIN lots ON lots.id = stock_transactions.lot_id").
			Where("lots.product_id = ?", productID).
			Preload("Lot").
			Order("stock_transactions.date DESC").
			Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// FilterStockTransactionsHandler combines optional filters: product, lot,
// type, date range, and a case-insensitive reference substring.
// GET /stock-transaction/filter?product_id=&lot_id=&type=&start=&end=&ref=
func FilterStockTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.StockTransaction{}).Preload("Lot")

		if productID := c.Query("product_id"); productID != "" {
			query = query.
				Joins("JOIN lots ON lots.id = stock_transactions.lot_id").
				Where("lots.product_id = ?", productID)
		}
		if lotID := c.Query("lot_id"); lotID != "" {
			query = query.Where("lot_id = ?", lotID)
		}
		if rawType := c.Query("type"); rawType != "" {
			txType, err := mapTransactionType(rawType)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("stock_transactions.type = ?", txType)
		}
		if start := c.Query("start"); start != "" {
			parsed, err := time.Parse("2006-01-02", start)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
				return
			}
			query = query.Where("stock_transactions.date >= ?", parsed)
		}
		if end := c.Query("end"); end != "" {
			parsed, err := time.Parse("2006-01-02", end)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
				return
			}
			query = query.Where("stock_transactions.date < ?", parsed.Add(24*time.Hour))
		}
		if ref := c.Query("ref"); ref != "" {
			query = query.Where("LOWER(ref_no) LIKE ?", "%"+strings.ToLower(ref)+"%")
		}

		var txs []models.StockTransaction
		if err := query.Order("stock_transactions.date DESC").Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}
