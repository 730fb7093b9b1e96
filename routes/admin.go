package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	customerControllers "github.com/pharmac-dev/pharmacy-api/controllers/customer"
	employeeControllers "github.com/pharmac-dev/pharmacy-api/controllers/employee"
	"github.com/pharmac-dev/pharmacy-api/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/auth/login", employeeControllers.Login(db))

	employees := r.Group("/employee", middleware.ValidateAPIKey)
	{
		employees.POST("", employeeControllers.CreateEmployee(db))
		employees.GET("", employeeControllers.GetAllEmployees(db))
		employees.GET("/:id", employeeControllers.GetEmployee(db))
		employees.PUT("/:id", employeeControllers.UpdateEmployee(db))
		employees.DELETE("/:id", employeeControllers.DeleteEmployee(db))
	}

	r.GET("/role", middleware.ValidateAPIKey, employeeControllers.GetAllRoles(db))

	customers := r.Group("/customer", middleware.ValidateToken)
	{
		customers.POST("", customerControllers.CreateCustomer(db))
		customers.GET("", customerControllers.GetAllCustomers(db))
		customers.GET("/:id", customerControllers.GetCustomer(db))
		customers.PUT("/:id", customerControllers.UpdateCustomer(db))
		customers.POST("/:id/points", customerControllers.AdjustLoyaltyPoints(db))
		customers.DELETE("/:id", customerControllers.DeleteCustomer(db))
	}
}
