package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/config"
	paymentControllers "github.com/pharmac-dev/pharmacy-api/controllers/payment"
	"github.com/pharmac-dev/pharmacy-api/models"
	"github.com/pharmac-dev/pharmacy-api/routes"
	"github.com/pharmac-dev/pharmacy-api/ws"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db := initDatabase(cfg, logger)

	if err := db.AutoMigrate(
		&models.Role{},
		&models.Employee{},
		&models.Product{},
		&models.Supplier{},
		&models.ProductSupplier{},
		&models.Lot{},
		&models.StockTransaction{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.POSignature{},
		&models.PurchaseDocument{},
	); err != nil {
		logger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded signature images
	r.Static("/uploads", cfg.UploadDir)

	hub := ws.NewHub(logger)
	gateway := paymentControllers.NewGateway(cfg.GatewayBaseURL, cfg.GatewaySecret)

	routes.SetupRoutes(r, db, routes.Deps{
		Hub:     hub,
		Gateway: gateway,
		Config:  cfg,
		Logger:  logger,
	})

	// Back up uploaded files daily at 2 AM, keep 4 days
	go startDailyBackupAtFixedTime(cfg.UploadDir, cfg.BackupDir, 4*24*time.Hour, 2, 0, logger)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	return db
}

// startDailyBackupAtFixedTime copies the upload dir daily at a fixed hour and
// removes backups older than the retention window.
func startDailyBackupAtFixedTime(srcDir, backupDir string, retention time.Duration, hour, min int, logger *zap.Logger) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		time.Sleep(next.Sub(now))

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		destDir := filepath.Join(backupDir, timestamp)

		if err := copyDir(srcDir, destDir); err != nil {
			logger.Error("failed to back up uploads", zap.Error(err))
		} else {
			logger.Info("uploads backed up", zap.String("dest", destDir))
		}

		cleanupOldBackups(backupDir, retention, logger)
	}
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, destPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies a single file
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than retention duration
func cleanupOldBackups(backupDir string, retention time.Duration, logger *zap.Logger) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		logger.Error("failed to read backup directory", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				logger.Error("failed to remove old backup", zap.String("path", folderPath), zap.Error(err))
			}
		}
	}
}
