package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"asrama/internal/events"
	"asrama/internal/logger"
	"asrama/internal/middleware"
	"asrama/internal/services"
	"asrama/internal/testutil"
	"asrama/internal/validator"
)

const testAdminToken = "rahasia-asrama"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Events *recordingPublisher
	Router *gin.Engine
}

// recordingPublisher collects published ledger events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.LedgerEvent
}

func (r *recordingPublisher) Publish(_ context.Context, e events.LedgerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) recorded() []events.LedgerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.LedgerEvent(nil), r.events...)
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the full stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	return setupAppWithToken(t, testAdminToken)
}

func setupAppWithToken(t *testing.T, adminToken string) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	published := &recordingPublisher{}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}

	router := NewRouter(Deps{
		Transactions: services.NewTransactionService(db, published),
		Audit:        services.NewAuditService(db),
		Verifier:     middleware.NewAdminVerifier(adminToken, ""),
		Sessions:     middleware.NewSessionManager(adminToken, time.Hour),
		DB:           sqlDB,
	})

	return &testApp{DB: db, Events: published, Router: router}
}

// request makes an HTTP request to the test router. A non-empty token is
// sent in the X-Admin-Token header.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AdminTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// listItems returns the items of GET /api/transactions.
func (app *testApp) listItems(t *testing.T) []interface{} {
	t.Helper()
	rec := app.request("GET", "/api/transactions", "", "")
	if rec.Code != 200 {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	items, ok := parseJSON(t, rec)["items"].([]interface{})
	if !ok {
		t.Fatalf("expected items array, got %s", rec.Body.String())
	}
	return items
}

// stats returns GET /api/stats as (pemasukan, pengeluaran, saldo).
func (app *testApp) stats(t *testing.T) (float64, float64, float64) {
	t.Helper()
	rec := app.request("GET", "/api/stats", "", "")
	if rec.Code != 200 {
		t.Fatalf("stats failed: %d %s", rec.Code, rec.Body.String())
	}
	s := parseJSON(t, rec)
	return s["pemasukan"].(float64), s["pengeluaran"].(float64), s["saldo"].(float64)
}

// create posts a transaction with the valid admin token and returns its id.
func (app *testApp) create(t *testing.T, body string) string {
	t.Helper()
	rec := app.request("POST", "/api/transactions", body, testAdminToken)
	if rec.Code != 201 {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}
