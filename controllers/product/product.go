package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type SupplierLinkInput struct {
	SupplierID uint    `json:"supplier_id" binding:"required"`
	UnitCost   float64 `json:"unit_cost"`
}

type CreateProductRequest struct {
	Name        string              `json:"name" binding:"required"`
	GenericName string              `json:"generic_name"`
	Brand       string              `json:"brand"`
	Category    string              `json:"category"`
	Unit        string              `json:"unit"`
	Price       float64             `json:"price" binding:"required,gt=0"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Suppliers   []SupplierLinkInput `json:"suppliers"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	GenericName *string  `json:"generic_name"`
	Brand       *string  `json:"brand"`
	Category    *string  `json:"category"`
	Unit        *string  `json:"unit"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// CreateProduct registers a medicine. Supplier links are best effort: a
// failed link is logged and the product is still created. POST /product
func CreateProduct(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			Name:        req.Name,
			GenericName: req.GenericName,
			Brand:       req.Brand,
			Category:    req.Category,
			Unit:        req.Unit,
			Price:       req.Price,
			Description: req.Description,
			Image:       req.Image,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
			return
		}

		for _, link := range req.Suppliers {
			ps := models.ProductSupplier{
				ProductID:  product.ID,
				SupplierID: link.SupplierID,
				UnitCost:   link.UnitCost,
			}
			if err := db.Create(&ps).Error; err != nil {
				logger.Warn("failed to link supplier to product",
					zap.Uint("product_id", product.ID),
					zap.Uint("supplier_id", link.SupplierID),
					zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, product)
	}
}

// GetAllProducts lists products, including supplier links. GET /product
func GetAllProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		query := db.Preload("Suppliers").Order("name ASC")
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProduct returns one product. GET /product/:id
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var product models.Product
		if err := db.Preload("Suppliers").First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// UpdateProduct applies a partial update. PUT /product/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.GenericName != nil {
			updates["generic_name"] = *req.GenericName
		}
		if req.Brand != nil {
			updates["brand"] = *req.Brand
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.Unit != nil {
			updates["unit"] = *req.Unit
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Image != nil {
			updates["image"] = *req.Image
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProduct soft-deletes a product and clears its supplier links.
// DELETE /product/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).
				Delete(&models.ProductSupplier{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
