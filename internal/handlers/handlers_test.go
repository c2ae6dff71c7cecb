package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"asrama/internal/logger"
	"asrama/internal/models"
	"asrama/internal/services"
	"asrama/internal/validator"
)

// --- mock services ---

type mockTransactionService struct {
	listTransactionsFn   func(ctx context.Context, filter services.TransactionFilter) ([]models.Transaction, error)
	getStatsFn           func(ctx context.Context, filter services.TransactionFilter) (*models.StatsSummary, error)
	getTransactionByIDFn func(ctx context.Context, id string) (*models.Transaction, error)
	createTransactionFn  func(ctx context.Context, input services.NewTransaction) (*models.Transaction, error)
	deleteTransactionFn  func(ctx context.Context, id string) (*models.Transaction, error)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context, filter services.TransactionFilter) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ctx, filter)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) GetStats(ctx context.Context, filter services.TransactionFilter) (*models.StatsSummary, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx, filter)
	}
	return &models.StatsSummary{}, nil
}

func (m *mockTransactionService) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(ctx, id)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, input services.NewTransaction) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ctx, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(ctx, id)
	}
	return &models.Transaction{Base: models.Base{ID: id}}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

type auditCall struct {
	action        string
	transactionID string
}

type mockAuditService struct {
	calls []auditCall
}

func (m *mockAuditService) Log(_ context.Context, action, transactionID, _ string, _ map[string]interface{}) {
	m.calls = append(m.calls, auditCall{action: action, transactionID: transactionID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertDetail(t *testing.T, result map[string]interface{}, want string) {
	t.Helper()
	if result["detail"] != want {
		t.Errorf("expected detail %q, got %v", want, result["detail"])
	}
}
