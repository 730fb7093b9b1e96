package customerControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type AdjustPointsRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// POST /customer
func CreateCustomer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customer := models.Customer{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		}
		if err := db.Create(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

// GET /customer
func GetAllCustomers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var customers []models.Customer
		query := db.Order("created_at DESC")
		if phone := c.Query("phone"); phone != "" {
			query = query.Where("phone = ?", phone)
		}
		if err := query.Find(&customers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
			return
		}
		c.JSON(http.StatusOK, customers)
	}
}

// GET /customer/:id
func GetCustomer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

// PUT /customer/:id
func UpdateCustomer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		var req UpdateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}

		if len(updates) > 0 {
			if err := db.Model(&customer).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
				return
			}
		}
		c.JSON(http.StatusOK, customer)
	}
}

// AdjustLoyaltyPoints applies a signed delta to a member's balance, used for
// manual corrections and redemptions. POST /customer/:id/points
func AdjustLoyaltyPoints(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var customer models.Customer
		if err := db.First(&customer, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}

		var req AdjustPointsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if customer.LoyaltyPoints+req.Delta < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "loyalty points cannot go negative"})
			return
		}

		if err := db.Model(&customer).
			Update("loyalty_points", gorm.Expr("loyalty_points + ?", req.Delta)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust points"})
			return
		}

		db.First(&customer, "id = ?", id)
		c.JSON(http.StatusOK, customer)
	}
}

// DELETE /customer/:id
func DeleteCustomer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := db.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
	}
}
