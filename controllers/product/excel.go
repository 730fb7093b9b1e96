package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

// ImportProductsFromExcel upserts the catalogue from an uploaded xlsx.
// Columns: ID, Name, GenericName, Brand, Category, Unit, Price, Description.
// Rows with a known ID are updated, others inserted; malformed rows are
// counted and skipped. POST /product/import
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			genericName := get(2)
			brand := get(3)
			category := get(4)
			unit := get(5)
			price, priceErr := strconv.ParseFloat(get(6), 64)
			description := get(7)

			if name == "" || priceErr != nil {
				skippedCount++
				continue
			}

			product := models.Product{
				Name:        name,
				GenericName: genericName,
				Brand:       brand,
				Category:    category,
				Unit:        unit,
				Price:       price,
				Description: description,
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.First(&existing, id).Error; err == nil {
						existing.Name = product.Name
						existing.GenericName = product.GenericName
						existing.Brand = product.Brand
						existing.Category = product.Category
						existing.Unit = product.Unit
						existing.Price = product.Price
						existing.Description = product.Description

						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
					}
				}
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
