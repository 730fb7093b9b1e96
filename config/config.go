package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Either a full DATABASE_URL or the individual pieces below.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:""`
	DBName      string `envconfig:"DB_NAME" default:"pharmacy"`

	// Payment gateway. The base URL is overridable so tests can point the
	// adapter at a stub server.
	GatewayBaseURL string `envconfig:"PAYMENT_GATEWAY_URL" default:"https://api.stripe.com"`
	GatewaySecret  string `envconfig:"PAYMENT_GATEWAY_SECRET" default:""`
	Currency       string `envconfig:"PAYMENT_CURRENCY" default:"thb"`

	// Used when the gateway returns a payment method without a billing email.
	FallbackEmail string `envconfig:"RECEIPT_FALLBACK_EMAIL" default:"customer@pharmac.store"`

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"/var/www/pharmacy/uploads"`
	BackupDir     string `envconfig:"BACKUP_DIR" default:"/var/www/pharmacy/backup/uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`

	JWTSecret   string `envconfig:"JWT_SECRET" default:""`
	AdminAPIKey string `envconfig:"ADMIN_API_KEY" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
