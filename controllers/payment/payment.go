package paymentControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
	"github.com/pharmac-dev/pharmacy-api/ws"
)

type CheckPaymentRequest struct {
	PaymentIntentID string `json:"pi" binding:"required"`
	OrderID         uint   `json:"order_id" binding:"required"`
	// Background reconciliation polls set this so connected displays are not
	// spammed; user-triggered checks leave it false.
	SkipWebSocket bool `json:"skipWebSocket"`
}

// mapGatewayStatus translates the gateway's status literals into the values
// reported to clients. requires_action means the customer has not scanned
// yet, which is "processing" from the store's point of view, not "paid".
func mapGatewayStatus(status string) string {
	switch status {
	case "succeeded":
		return "paid"
	case "requires_action", "requires_confirmation", "processing":
		return "processing"
	case "canceled":
		return "canceled"
	default:
		return status
	}
}

// CheckPaymentHandler polls the gateway for an intent's status and flips the
// order to PAID on success. Any other status leaves the order untouched, so
// repeated checks are idempotent and a failed attempt never reverts a paid
// order. POST /payment/check
func CheckPaymentHandler(db *gorm.DB, gateway *Gateway, hub *ws.Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, req.OrderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		intent, err := gateway.GetPaymentIntent(req.PaymentIntentID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if intent.Status == "succeeded" {
			if err := db.Model(&models.Order{}).Where("id = ?", req.OrderID).
				Update("status", models.OrderStatusPaid).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
				return
			}
			logger.Info("order paid",
				zap.Uint("order_id", req.OrderID),
				zap.String("payment_intent", req.PaymentIntentID))
		}

		mapped := mapGatewayStatus(intent.Status)

		if !req.SkipWebSocket {
			hub.BroadcastPaymentStatus(gin.H{
				"payment_intent_id": req.PaymentIntentID,
				"order_id":          req.OrderID,
				"status":            mapped,
				"timestamp":         time.Now(),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"success": intent.Status == "succeeded",
			"status":  mapped,
		})
	}
}
