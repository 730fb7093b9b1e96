package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pharmac-dev/pharmacy-api/config"
	paymentControllers "github.com/pharmac-dev/pharmacy-api/controllers/payment"
	"github.com/pharmac-dev/pharmacy-api/models"
	"github.com/pharmac-dev/pharmacy-api/ws"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.Employee{}, &models.Customer{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubGateway mimics the payment processor: create intent, create method,
// confirm with a QR, and retrieve with a settable status.
type stubGateway struct {
	mu         sync.Mutex
	status     string
	lastAmount int64
	itemsMeta  string
	failCreate bool
}

func (s *stubGateway) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *stubGateway) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failCreate {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"type": "invalid_request_error", "message": "amount too small"},
			})
			return
		}
		r.ParseForm()
		s.lastAmount, _ = strconv.ParseInt(r.PostFormValue("amount"), 10, 64)
		s.itemsMeta = r.PostFormValue("metadata[items]")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "pi_test_1",
			"amount":   s.lastAmount,
			"currency": r.PostFormValue("currency"),
			"status":   "requires_payment_method",
			"metadata": map[string]string{"items": s.itemsMeta},
		})
	})

	mux.HandleFunc("/v1/payment_methods", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":   "pm_test_1",
			"type": r.PostFormValue("type"),
			"billing_details": map[string]string{
				"email": r.PostFormValue("billing_details[email]"),
			},
		})
	})

	mux.HandleFunc("/v1/payment_intents/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if strings.HasSuffix(r.URL.Path, "/confirm") {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":       "pi_test_1",
				"status":   "requires_action",
				"metadata": map[string]string{"items": s.itemsMeta},
				"next_action": map[string]interface{}{
					"promptpay_display_qr_code": map[string]string{
						"data":          "00020101021230",
						"image_url_png": "https://gateway.test/qr/pi_test_1.png",
					},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pi_test_1",
			"status": s.status,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() *config.Config {
	return &config.Config{
		Currency:      "thb",
		FallbackEmail: "customer@pharmac.store",
	}
}

func newRouter(db *gorm.DB, gateway *paymentControllers.Gateway, hub *ws.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	r := gin.New()
	r.POST("/order/createOrder", CreateOrderHandler(db, gateway, hub, testConfig(), logger))
	r.GET("/order/latest", GetLatestOrdersHandler(db))
	r.GET("/order/recent", GetRecentOrdersHandler(db))
	r.GET("/order/:orderID", GetOrderByIDHandler(db))
	r.POST("/payment/check", paymentControllers.CheckPaymentHandler(db, gateway, hub, logger))
	return r
}

func seedEmployee(t *testing.T, db *gorm.DB) models.Employee {
	t.Helper()
	role := models.Role{Name: "cashier"}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	employee := models.Employee{
		Name: "Alex", Email: "alex@pharmac.store",
		PasswordHash: "x", RoleID: role.ID,
	}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return employee
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{120.00, 12000},
		{85.50, 8550},
		{130.00, 13000},
		{0.01, 1},
		{99.99, 9999},
		{0, 0},
	}
	for _, tc := range cases {
		if got := ToMinorUnits(tc.amount); got != tc.want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	db := setupDB(t)
	stub := &stubGateway{status: "requires_action"}
	srv := stub.server(t)
	gateway := paymentControllers.NewGateway(srv.URL, "sk_test")
	router := newRouter(db, gateway, ws.NewHub(zap.NewNop()))
	employee := seedEmployee(t, db)

	rec := postJSON(t, router, "/order/createOrder", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 1, "product_name": "Paracetamol 500mg", "quantity": 2, "unit_price": 50.00},
			{"product_id": 2, "product_name": "Vitamin C", "quantity": 1, "unit_price": 30.00},
		},
		"employee_id":  employee.ID,
		"total_amount": 130.00,
		"total_price":  130.00,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["payment_intent_id"] != "pi_test_1" {
		t.Errorf("unexpected intent id: %v", resp["payment_intent_id"])
	}
	if resp["qr_code_url"] != "https://gateway.test/qr/pi_test_1.png" {
		t.Errorf("unexpected qr url: %v", resp["qr_code_url"])
	}
	if resp["payment_type"] != "promptpay" {
		t.Errorf("unexpected payment type: %v", resp["payment_type"])
	}

	// 130.00 must reach the gateway as 13000 minor units.
	if stub.lastAmount != 13000 {
		t.Errorf("gateway received %d minor units, want 13000", stub.lastAmount)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("order status after creation = %s, want PENDING", order.Status)
	}
	if len(order.Items) != 2 {
		t.Errorf("expected 2 line items, got %d", len(order.Items))
	}
}

func TestCreateOrderThenSuccessfulCheckMarksPaid(t *testing.T) {
	db := setupDB(t)
	stub := &stubGateway{status: "succeeded"}
	srv := stub.server(t)
	gateway := paymentControllers.NewGateway(srv.URL, "sk_test")
	router := newRouter(db, gateway, ws.NewHub(zap.NewNop()))
	employee := seedEmployee(t, db)

	rec := postJSON(t, router, "/order/createOrder", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 1, "product_name": "Paracetamol 500mg", "quantity": 2, "unit_price": 50.00},
		},
		"employee_id":  employee.ID,
		"total_amount": 100.00,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create order: %d: %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	if err := db.First(&order).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("order should be PENDING before the check, got %s", order.Status)
	}

	checkBody := map[string]interface{}{"pi": "pi_test_1", "order_id": order.ID, "skipWebSocket": true}
	rec = postJSON(t, router, "/payment/check", checkBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("payment check: %d: %s", rec.Code, rec.Body.String())
	}

	// Status must be visible on a plain order read.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/order/%d", order.ID), nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get order: %d", getRec.Code)
	}
	var fetched models.Order
	if err := json.Unmarshal(getRec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if fetched.Status != models.OrderStatusPaid {
		t.Errorf("order status after succeeded check = %s, want PAID", fetched.Status)
	}
}

func TestCreateOrderGatewayFailureMarksOrderFailed(t *testing.T) {
	db := setupDB(t)
	stub := &stubGateway{failCreate: true}
	srv := stub.server(t)
	gateway := paymentControllers.NewGateway(srv.URL, "sk_test")
	router := newRouter(db, gateway, ws.NewHub(zap.NewNop()))
	employee := seedEmployee(t, db)

	rec := postJSON(t, router, "/order/createOrder", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 1, "product_name": "Paracetamol 500mg", "quantity": 1, "unit_price": 50.00},
		},
		"employee_id":  employee.ID,
		"total_amount": 50.00,
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	if err := db.First(&order).Error; err != nil {
		t.Fatalf("the order row should still exist: %v", err)
	}
	if order.Status != models.OrderStatusFailed {
		t.Errorf("order status = %s, want FAILED", order.Status)
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	db := setupDB(t)
	stub := &stubGateway{}
	srv := stub.server(t)
	gateway := paymentControllers.NewGateway(srv.URL, "sk_test")
	router := newRouter(db, gateway, ws.NewHub(zap.NewNop()))
	employee := seedEmployee(t, db)

	rec := postJSON(t, router, "/order/createOrder", map[string]interface{}{
		"items":        []map[string]interface{}{},
		"employee_id":  employee.ID,
		"total_amount": 10.00,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("no order should be persisted, found %d", count)
	}
}

func TestCreateOrderAppliesLoyaltyPoints(t *testing.T) {
	db := setupDB(t)
	stub := &stubGateway{}
	srv := stub.server(t)
	gateway := paymentControllers.NewGateway(srv.URL, "sk_test")
	router := newRouter(db, gateway, ws.NewHub(zap.NewNop()))
	employee := seedEmployee(t, db)

	customer := models.Customer{Name: "Nok", Email: "nok@example.com", LoyaltyPoints: 10}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	rec := postJSON(t, router, "/order/createOrder", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 1, "product_name": "Ibuprofen", "quantity": 1, "unit_price": 75.25},
		},
		"employee_id":    employee.ID,
		"customer_id":    customer.ID,
		"loyalty_points": 5,
		"total_amount":   75.25,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create order: %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["customer_email"] != "nok@example.com" {
		t.Errorf("customer email = %v, want the member's email", resp["customer_email"])
	}
	if stub.lastAmount != 7525 {
		t.Errorf("gateway received %d minor units, want 7525", stub.lastAmount)
	}

	var updated models.Customer
	db.First(&updated, customer.ID)
	if updated.LoyaltyPoints != 15 {
		t.Errorf("loyalty points = %d, want 15", updated.LoyaltyPoints)
	}
}
