package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/config"
	paymentControllers "github.com/pharmac-dev/pharmacy-api/controllers/payment"
	"github.com/pharmac-dev/pharmacy-api/ws"
)

// Deps carries the shared collaborators handlers need beyond the DB.
type Deps struct {
	Hub     *ws.Hub
	Gateway *paymentControllers.Gateway
	Config  *config.Config
	Logger  *zap.Logger
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	// Checkout, payment verification and the realtime channel
	SetupOrderRoutes(r, db, deps)

	// Stock ledger and lots
	SetupInventoryRoutes(r, db)

	// Products, suppliers, purchase documents
	SetupCatalogRoutes(r, db, deps)

	// Staff, roles, members and login (API-key-protected admin surface)
	SetupAdminRoutes(r, db)

	// Revenue reports
	SetupReportRoutes(r, db)
}
