package stockControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/models"
)

func setupStock(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Lot{}, &models.StockTransaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	router := gin.New()
	router.POST("/stock-transaction", CreateStockTransactionHandler(db))
	router.GET("/stock-transaction/filter", FilterStockTransactionsHandler(db))
	return db, router
}

func seedLot(t *testing.T, db *gorm.DB, initial int) models.Lot {
	t.Helper()
	product := models.Product{Name: "Amoxicillin 250mg", Category: "antibiotic", Unit: "capsule", Price: 4.50}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	lot := models.Lot{
		LotNumber:     "LOT-001",
		ProductID:     product.ID,
		InitialAmount: initial,
		Cost:          2.10,
		AddedDate:     time.Now(),
		ExpiryDate:    time.Now().AddDate(1, 0, 0),
	}
	if err := db.Create(&lot).Error; err != nil {
		t.Fatalf("seed lot: %v", err)
	}
	return lot
}

func postTx(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/stock-transaction", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLotAvailableSumsLedger(t *testing.T) {
	db, router := setupStock(t)
	lot := seedLot(t, db, 100)

	moves := []map[string]interface{}{
		{"type": "IN", "quantity": 20, "lot_id": lot.ID, "ref_no": "PO-7"},
		{"type": "OUT", "quantity": 30, "lot_id": lot.ID, "ref_no": "SALE-1"},
		{"type": "ADJUST", "quantity": -5, "lot_id": lot.ID, "note": "broken blister packs"},
	}
	for _, m := range moves {
		if rec := postTx(t, router, m); rec.Code != http.StatusOK {
			t.Fatalf("create %v: %d: %s", m["type"], rec.Code, rec.Body.String())
		}
	}

	available, err := LotAvailable(db, lot.ID)
	if err != nil {
		t.Fatalf("LotAvailable: %v", err)
	}
	// 100 + 20 - 30 - 5
	if available != 85 {
		t.Errorf("available = %d, want 85", available)
	}
}

func TestOutBeyondAvailableIsRejected(t *testing.T) {
	db, router := setupStock(t)
	lot := seedLot(t, db, 10)

	rec := postTx(t, router, map[string]interface{}{
		"type": "OUT", "quantity": 11, "lot_id": lot.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error     string `json:"error"`
		Available int    `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Available != 10 {
		t.Errorf("reported available = %d, want 10", resp.Available)
	}

	var count int64
	db.Model(&models.StockTransaction{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected OUT must not be persisted, found %d rows", count)
	}

	// Draining exactly to zero is allowed.
	if rec := postTx(t, router, map[string]interface{}{
		"type": "OUT", "quantity": 10, "lot_id": lot.ID,
	}); rec.Code != http.StatusOK {
		t.Fatalf("OUT to zero should pass, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	db, router := setupStock(t)
	lot := seedLot(t, db, 10)

	cases := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"unknown type", map[string]interface{}{"type": "MOVE", "quantity": 1, "lot_id": lot.ID}, http.StatusBadRequest},
		{"negative IN", map[string]interface{}{"type": "IN", "quantity": -3, "lot_id": lot.ID}, http.StatusBadRequest},
		{"missing lot", map[string]interface{}{"type": "IN", "quantity": 3, "lot_id": 9999}, http.StatusNotFound},
		{"lowercase type accepted", map[string]interface{}{"type": "in", "quantity": 3, "lot_id": lot.ID}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := postTx(t, router, tc.body); rec.Code != tc.want {
				t.Fatalf("got %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestFilterByRefIsCaseInsensitive(t *testing.T) {
	db, router := setupStock(t)
	lot := seedLot(t, db, 100)

	for _, ref := range []string{"LOT-001-RECEIPT", "PO-42"} {
		if rec := postTx(t, router, map[string]interface{}{
			"type": "IN", "quantity": 5, "lot_id": lot.ID, "ref_no": ref,
		}); rec.Code != http.StatusOK {
			t.Fatalf("seed tx %s: %d", ref, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/stock-transaction/filter?ref=lot-001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("filter: %d: %s", rec.Code, rec.Body.String())
	}

	var txs []models.StockTransaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 match for lowercase query, got %d", len(txs))
	}
	if txs[0].RefNo != "LOT-001-RECEIPT" {
		t.Errorf("matched %q, want LOT-001-RECEIPT", txs[0].RefNo)
	}
}

func TestFilterByTypeAndDateRange(t *testing.T) {
	db, router := setupStock(t)
	lot := seedLot(t, db, 100)

	old := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	seed := []models.StockTransaction{
		{Type: models.StockIn, Quantity: 10, Date: old, LotID: lot.ID},
		{Type: models.StockOut, Quantity: 4, Date: recent, LotID: lot.ID},
		{Type: models.StockIn, Quantity: 7, Date: recent, LotID: lot.ID},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed tx: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet,
		"/stock-transaction/filter?type=IN&start=2026-03-01&end=2026-03-05", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("filter: %d: %s", rec.Code, rec.Body.String())
	}

	var txs []models.StockTransaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// end is inclusive of the whole day, type narrows to the IN row
	if len(txs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(txs))
	}
	if txs[0].Quantity != 7 {
		t.Errorf("matched quantity %d, want 7", txs[0].Quantity)
	}

	req = httptest.NewRequest(http.MethodGet, "/stock-transaction/filter?type=MOVE", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type filter should 400, got %d", rec.Code)
	}
}
