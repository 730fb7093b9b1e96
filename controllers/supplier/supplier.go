package supplierControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// POST /supplier
func CreateSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSupplierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		supplier := models.Supplier{
			Name:        req.Name,
			ContactName: req.ContactName,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
		}
		if err := db.Create(&supplier).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
			return
		}
		c.JSON(http.StatusOK, supplier)
	}
}

// GET /supplier
func GetAllSuppliers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var suppliers []models.Supplier
		if err := db.Order("name ASC").Find(&suppliers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
			return
		}
		c.JSON(http.StatusOK, suppliers)
	}
}

// GET /supplier/:id
func GetSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var supplier models.Supplier
		if err := db.First(&supplier, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, supplier)
	}
}

// PUT /supplier/:id
func UpdateSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var supplier models.Supplier
		if err := db.First(&supplier, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		var req CreateSupplierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		supplier.Name = req.Name
		supplier.ContactName = req.ContactName
		supplier.Email = req.Email
		supplier.Phone = req.Phone
		supplier.Address = req.Address

		if err := db.Save(&supplier).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
			return
		}
		c.JSON(http.StatusOK, supplier)
	}
}

// DELETE /supplier/:id
func DeleteSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("supplier_id = ?", id).
				Delete(&models.ProductSupplier{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Supplier{}, "id = ?", id).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
	}
}
