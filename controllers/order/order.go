package orderControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/config"
	paymentControllers "github.com/pharmac-dev/pharmacy-api/controllers/payment"
	"github.com/pharmac-dev/pharmacy-api/models"
	"github.com/pharmac-dev/pharmacy-api/ws"
)

// -------- Request Structs --------

type OrderItemInput struct {
	ProductID   uint    `json:"product_id" binding:"required"`
	ProductName string  `json:"product_name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateOrderRequest struct {
	Items             []OrderItemInput `json:"items" binding:"required"`
	EmployeeID        uint             `json:"employee_id" binding:"required"`
	CustomerID        *uint            `json:"customer_id"`
	LoyaltyPoints     int              `json:"loyalty_points"`
	TotalAmount       float64          `json:"total_amount" binding:"required,gt=0"`
	TotalPrice        float64          `json:"total_price"`
	PaymentMethodType string           `json:"payment_method_type"`
}

// -------- Helpers --------

// ToMinorUnits converts a major-unit amount to the gateway's minor-unit
// integer, rounding half up. Exact for any cent-representable amount:
// 120.00 -> 12000, 85.50 -> 8550.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// generateOrderRef yields e.g. 20250908130500-<uuid4>.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Handlers --------

// CreateOrderHandler runs the checkout sequence: persist the order as
// PENDING, request a payment intent sized in minor units, request a
// QR-capable payment method, confirm to obtain the QR, then broadcast the
// result to the customer display. The five steps share no transaction; if a
// gateway step fails the already-persisted order is marked FAILED instead of
// being left as an orphaned PENDING row.
// POST /order/createOrder
func CreateOrderHandler(db *gorm.DB, gateway *paymentControllers.Gateway, hub *ws.Hub, cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order must contain at least one item"})
			return
		}

		methodType := req.PaymentMethodType
		if methodType == "" {
			methodType = "promptpay"
		}

		var items []models.OrderItem
		for _, item := range req.Items {
			items = append(items, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
			})
		}

		order := models.Order{
			OrderRef:          generateOrderRef(),
			EmployeeID:        req.EmployeeID,
			CustomerID:        req.CustomerID,
			Items:             items,
			TotalAmount:       req.TotalAmount,
			TotalPrice:        req.TotalPrice,
			Status:            models.OrderStatusPending,
			PaymentMethodType: methodType,
			CreatedAt:         time.Now(),
		}
		if err := db.Create(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
			return
		}

		customerEmail := cfg.FallbackEmail
		if req.CustomerID != nil {
			var customer models.Customer
			if err := db.First(&customer, "id = ?", *req.CustomerID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
				return
			}
			if customer.Email != "" {
				customerEmail = customer.Email
			}
			if req.LoyaltyPoints != 0 {
				if err := db.Model(&customer).
					Update("loyalty_points", gorm.Expr("loyalty_points + ?", req.LoyaltyPoints)).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update loyalty points"})
					return
				}
			}
		}

		var itemMeta []paymentControllers.ItemMetadata
		for _, item := range req.Items {
			itemMeta = append(itemMeta, paymentControllers.ItemMetadata{
				ProductID: item.ProductID,
				Price:     ToMinorUnits(item.UnitPrice),
				Name:      item.ProductName,
			})
		}

		amountMinor := ToMinorUnits(req.TotalAmount)

		intent, err := gateway.CreatePaymentIntent(amountMinor, cfg.Currency, methodType, itemMeta)
		if err != nil {
			failOrder(db, logger, order.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		method, err := gateway.CreatePaymentMethod(methodType, customerEmail)
		if err != nil {
			failOrder(db, logger, order.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		if method.BillingDetails.Email != "" {
			customerEmail = method.BillingDetails.Email
		}

		confirmed, err := gateway.ConfirmPaymentIntent(intent.ID, method.ID)
		if err != nil {
			failOrder(db, logger, order.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		response := gin.H{
			"order_id":          order.ID,
			"order_ref":         order.OrderRef,
			"payment_intent_id": intent.ID,
			"qr_code_url":       confirmed.QRImageURL(),
			"customer_email":    customerEmail,
			"items":             confirmed.Items(),
			"payment_type":      methodType,
			"total_amount":      order.TotalAmount,
		}

		hub.BroadcastNewOrderQR(response)
		hub.BroadcastAdminNotification(gin.H{
			"type":         "new-order",
			"order_id":     order.ID,
			"order_ref":    order.OrderRef,
			"total_amount": order.TotalAmount,
			"created_at":   order.CreatedAt,
		})

		logger.Info("order created",
			zap.Uint("order_id", order.ID),
			zap.String("payment_intent", intent.ID),
			zap.Int64("amount_minor", amountMinor))

		c.JSON(http.StatusOK, response)
	}
}

// failOrder is the compensating mark for a gateway failure after the order
// row already exists. Best effort; the original error is what the caller
// sees.
func failOrder(db *gorm.DB, logger *zap.Logger, orderID uint, cause error) {
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusFailed).Error; err != nil {
		logger.Error("failed to mark order FAILED",
			zap.Uint("order_id", orderID), zap.Error(err))
		return
	}
	logger.Warn("order marked FAILED after gateway error",
		zap.Uint("order_id", orderID), zap.Error(cause))
}

// GetLatestOrdersHandler returns the N most recent orders, used by the
// notification feed to rebuild state after a reconnect.
// GET /order/latest?limit=N
func GetLatestOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 5
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}

		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("Customer").
			Order("created_at DESC").
			Limit(limit).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetRecentOrdersHandler returns orders created within the last 24 hours.
// GET /order/recent
func GetRecentOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		since := time.Now().Add(-24 * time.Hour)

		var orders []models.Order
		if err := db.
			Where("created_at >= ?", since).
			Preload("Items").
			Preload("Customer").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetAllOrdersHandler returns every order, newest first. GET /order/
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Employee").
			Preload("Customer").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler returns a single order by numeric id or order_ref.
// GET /order/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		query := db.Preload("Employee").Preload("Customer").Preload("Items")
		if _, err := strconv.Atoi(id); err == nil {
			query = query.Where("id = ? OR order_ref = ?", id, id)
		} else {
			query = query.Where("order_ref = ?", id)
		}
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
