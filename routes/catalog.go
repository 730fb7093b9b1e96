package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/pharmac-dev/pharmacy-api/controllers/product"
	purchaseControllers "github.com/pharmac-dev/pharmacy-api/controllers/purchase"
	supplierControllers "github.com/pharmac-dev/pharmacy-api/controllers/supplier"
)

func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	products := r.Group("/product")
	{
		products.POST("", productcontroller.CreateProduct(db, deps.Logger))
		products.GET("", productcontroller.GetAllProducts(db))
		products.GET("/export", productcontroller.ExportProductsToExcel(db))
		products.POST("/import", productcontroller.ImportProductsFromExcel(db))
		products.GET("/:id", productcontroller.GetProduct(db))
		products.PUT("/:id", productcontroller.UpdateProduct(db))
		products.DELETE("/:id", productcontroller.DeleteProduct(db))
	}

	suppliers := r.Group("/supplier")
	{
		suppliers.POST("", supplierControllers.CreateSupplier(db))
		suppliers.GET("", supplierControllers.GetAllSuppliers(db))
		suppliers.GET("/:id", supplierControllers.GetSupplier(db))
		suppliers.PUT("/:id", supplierControllers.UpdateSupplier(db))
		suppliers.DELETE("/:id", supplierControllers.DeleteSupplier(db))
	}

	po := r.Group("/po")
	{
		po.POST("", purchaseControllers.CreatePurchaseDocument(db))
		po.GET("", purchaseControllers.GetAllPurchaseDocuments(db))
		po.GET("/:poID", purchaseControllers.GetPurchaseDocument(db))
		po.POST("/:poID/signature", purchaseControllers.UploadSignature(db, deps.Config.UploadDir, deps.Config.PublicBaseURL, deps.Logger))
	}
}
