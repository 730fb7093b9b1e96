package employeeControllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	RoleID   uint   `json:"role_id" binding:"required"`
}

type UpdateEmployeeRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	RoleID *uint   `json:"role_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /employee
func CreateEmployee(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var role models.Role
		if err := db.First(&role, "id = ?", req.RoleID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		employee := models.Employee{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
			Phone:        req.Phone,
			RoleID:       req.RoleID,
		}
		if err := db.Create(&employee).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
			return
		}
		c.JSON(http.StatusOK, employee)
	}
}

// GET /employee
func GetAllEmployees(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var employees []models.Employee
		if err := db.
			Preload("Role").
			Order("created_at DESC").
			Find(&employees).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch employees"})
			return
		}
		c.JSON(http.StatusOK, employees)
	}
}

// GET /employee/:id
func GetEmployee(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var employee models.Employee
		if err := db.Preload("Role").First(&employee, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, employee)
	}
}

// PUT /employee/:id
func UpdateEmployee(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var employee models.Employee
		if err := db.First(&employee, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}

		var req UpdateEmployeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Phone != nil {
			updates["phone"] = *req.Phone
		}
		if req.RoleID != nil {
			var role models.Role
			if err := db.First(&role, "id = ?", *req.RoleID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
				return
			}
			updates["role_id"] = *req.RoleID
		}

		if len(updates) > 0 {
			if err := db.Model(&employee).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update employee"})
				return
			}
		}
		c.JSON(http.StatusOK, employee)
	}
}

// DELETE /employee/:id
func DeleteEmployee(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := db.Delete(&models.Employee{}, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete employee"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
	}
}

// GET /role
func GetAllRoles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var roles []models.Role
		if err := db.Order("id ASC").Find(&roles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch roles"})
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}

// Login verifies credentials and sets the JWT cookie the auth middleware
// checks. POST /auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var employee models.Employee
		if err := db.Preload("Role").First(&employee, "email = ?", req.Email).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		token, err := issueJWT(employee)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		c.SetCookie("token", token, int((24 * time.Hour).Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"employee": employee,
		})
	}
}

func issueJWT(employee models.Employee) (string, error) {
	claims := jwt.MapClaims{
		"user_id": employee.ID,
		"email":   employee.Email,
		"role":    employee.Role.Name,
		"name":    employee.Name,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
