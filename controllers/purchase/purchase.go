package purchaseControllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

type CreatePurchaseDocumentRequest struct {
	DocumentNo string    `json:"document_no" binding:"required"`
	SupplierID uint      `json:"supplier_id" binding:"required"`
	IssueDate  time.Time `json:"issue_date"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	FileURL    string    `json:"file_url"`
}

// CreatePurchaseDocument records PO metadata; the rendered PDF belongs to
// the external rendering service. POST /po
func CreatePurchaseDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePurchaseDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var supplier models.Supplier
		if err := db.First(&supplier, "id = ?", req.SupplierID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
			return
		}

		issueDate := req.IssueDate
		if issueDate.IsZero() {
			issueDate = time.Now()
		}
		status := req.Status
		if status == "" {
			status = "draft"
		}

		doc := models.PurchaseDocument{
			DocumentNo: req.DocumentNo,
			SupplierID: req.SupplierID,
			IssueDate:  issueDate,
			Status:     status,
			Total:      req.Total,
			FileURL:    req.FileURL,
		}
		if err := db.Create(&doc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create purchase document"})
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// GET /po
func GetAllPurchaseDocuments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var docs []models.PurchaseDocument
		if err := db.
			Preload("Supplier").
			Preload("POSignature").
			Order("issue_date DESC").
			Find(&docs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

// GET /po/:poID
func GetPurchaseDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("poID")
		var doc models.PurchaseDocument
		if err := db.
			Preload("Supplier").
			Preload("POSignature").
			First(&doc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "purchase document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// UploadSignature stores a signature image for a purchase document and links
// it. Filenames are sanitized and prefixed to avoid collisions.
// POST /po/:poID/signature
func UploadSignature(db *gorm.DB, uploadDir, publicBaseURL string, logger *zap.Logger) gin.HandlerFunc {
	re := regexp.MustCompile(`[^\w\d\-_\.]`)

	return func(c *gin.Context) {
		poID := c.Param("poID")
		var doc models.PurchaseDocument
		if err := db.First(&doc, "id = ?", poID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "purchase document not found"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		cleanName := re.ReplaceAllString(file.Filename, "_")
		filename := fmt.Sprintf("%s_%s", uuid.NewString(), cleanName)

		if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Failed to create upload folder: %v", err),
			})
			return
		}

		savePath := filepath.Join(uploadDir, filename)
		if err := c.SaveUploadedFile(file, savePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Failed to save file: %v", err),
			})
			return
		}

		fileURL := fmt.Sprintf("%s/uploads/%s", publicBaseURL, filename)

		sig, err := models.SavePOSignature(db, c.PostForm("signer_name"), filename, fileURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save signature"})
			return
		}

		if err := db.Model(&doc).Update("po_signature_id", sig.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link signature"})
			return
		}

		logger.Info("signature uploaded",
			zap.String("po_id", poID),
			zap.String("file", filename))

		c.JSON(http.StatusOK, gin.H{
			"signature": sig,
			"message":   "Signature uploaded successfully",
		})
	}
}
