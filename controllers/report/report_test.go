package reportControllers

import (
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

func orderAt(status models.OrderStatus, amount float64, at time.Time) models.Order {
	return models.Order{
		OrderRef:    fmt.Sprintf("%s-%f", at.Format("20060102150405"), amount),
		EmployeeID:  1,
		TotalAmount: amount,
		Status:      status,
		CreatedAt:   at,
	}
}

func TestAggregateRevenueByDay(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 16, 45, 0, 0, time.UTC)

	orders := []models.Order{
		orderAt(models.OrderStatusPaid, 130.00, day1),
		orderAt(models.OrderStatusPaid, 85.50, day1),
		orderAt(models.OrderStatusPaid, 19.75, day2),
	}

	points := AggregateRevenue(orders, "day")
	if len(points) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(points))
	}
	if points[0].Date != "2026-08-01" || points[0].Revenue != 215.50 {
		t.Errorf("bucket 0 = %+v, want 2026-08-01 / 215.50", points[0])
	}
	if points[1].Date != "2026-08-02" || points[1].Revenue != 19.75 {
		t.Errorf("bucket 1 = %+v, want 2026-08-02 / 19.75", points[1])
	}
}

func TestAggregateRevenueByMonth(t *testing.T) {
	orders := []models.Order{
		orderAt(models.OrderStatusPaid, 100.00, time.Date(2026, 7, 28, 9, 0, 0, 0, time.UTC)),
		orderAt(models.OrderStatusPaid, 50.00, time.Date(2026, 7, 3, 11, 0, 0, 0, time.UTC)),
		orderAt(models.OrderStatusPaid, 10.00, time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)),
	}

	points := AggregateRevenue(orders, "month")
	if len(points) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(points))
	}
	if points[0].Date != "2026-07" || points[0].Revenue != 150.00 {
		t.Errorf("bucket 0 = %+v, want 2026-07 / 150.00", points[0])
	}
	if points[1].Date != "2026-08" || points[1].Revenue != 10.00 {
		t.Errorf("bucket 1 = %+v, want 2026-08 / 10.00", points[1])
	}
}

func TestAggregateRevenueDecimalSums(t *testing.T) {
	// Binary floats drift when summed naively: 0.1+0.2 style errors must
	// not leak into the report.
	at := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt(models.OrderStatusPaid, 0.10, at),
		orderAt(models.OrderStatusPaid, 0.20, at),
		orderAt(models.OrderStatusPaid, 0.30, at),
	}

	points := AggregateRevenue(orders, "day")
	if len(points) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(points))
	}
	if points[0].Revenue != 0.60 {
		t.Errorf("revenue = %v, want exactly 0.60", points[0].Revenue)
	}
}

func TestAggregateRevenueEmpty(t *testing.T) {
	points := AggregateRevenue(nil, "day")
	if len(points) != 0 {
		t.Fatalf("expected no buckets, got %d", len(points))
	}
}

func TestRevenueHandlerCountsOnlyPaidOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	at := time.Date(2026, 8, 20, 13, 0, 0, 0, time.UTC)
	seed := []models.Order{
		orderAt(models.OrderStatusPaid, 130.00, at),
		orderAt(models.OrderStatusPending, 999.00, at),
		orderAt(models.OrderStatusFailed, 500.00, at),
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}

	router := gin.New()
	router.GET("/report/revenue", RevenueHandler(db))

	req := httptest.NewRequest(http.MethodGet, "/report/revenue?granularity=day", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("revenue: %d: %s", rec.Code, rec.Body.String())
	}

	var points []RevenuePoint
	if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(points))
	}
	if points[0].Revenue != 130.00 {
		t.Errorf("revenue = %v, pending and failed orders must not count", points[0].Revenue)
	}

	req = httptest.NewRequest(http.MethodGet, "/report/revenue?granularity=week", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad granularity should 400, got %d", rec.Code)
	}
}
