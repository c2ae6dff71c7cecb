package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "asrama/internal/errors"
	"asrama/internal/models"
	"asrama/internal/services"
)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.GET("/transactions", handler.ListTransactions)
	r.GET("/stats", handler.GetStats)
	r.GET("/transactions/:id", handler.GetTransactionByID)
	r.POST("/transactions", handler.CreateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 with the stored record", func(t *testing.T) {
		var got services.NewTransaction
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ context.Context, input services.NewTransaction) (*models.Transaction, error) {
				got = input
				return &models.Transaction{
					Base:       models.Base{ID: "0190a6b4-1111-7000-8000-000000000001"},
					Tanggal:    input.Tanggal,
					Keterangan: input.Keterangan,
					Jumlah:     input.Jumlah,
					Tipe:       input.Tipe,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"tanggal":"2024-05-01","penghuni":"Budi","kamar":"A-12","keterangan":"Iuran","jumlah":150000,"tipe":"pemasukan"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["id"] != "0190a6b4-1111-7000-8000-000000000001" {
			t.Errorf("expected bare record with id, got %v", result)
		}
		if got.Jumlah != 150000 || got.Tipe != models.TransactionTypeIncome {
			t.Errorf("unexpected service input %+v", got)
		}
		if !got.Tanggal.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected tanggal %v", got.Tanggal)
		}
		if len(audit.calls) != 1 || audit.calls[0].action != services.AuditCreateTransaction {
			t.Errorf("expected one create audit entry, got %+v", audit.calls)
		}
	})

	t.Run("normalizes english alias and numeric string amount", func(t *testing.T) {
		var got services.NewTransaction
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ context.Context, input services.NewTransaction) (*models.Transaction, error) {
				got = input
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"tanggal":"2024-05-01T10:00:00.000Z","keterangan":"Listrik","jumlah":"75000","tipe":"expense"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Tipe != models.TransactionTypeExpense || got.Jumlah != 75000 {
			t.Errorf("unexpected service input %+v", got)
		}
	})

	invalid := []struct {
		name   string
		body   string
		detail string
	}{
		{"missing keterangan", `{"tanggal":"2024-05-01","jumlah":1,"tipe":"pemasukan"}`, "keterangan is required"},
		{"blank keterangan", `{"tanggal":"2024-05-01","keterangan":"  ","jumlah":1,"tipe":"pemasukan"}`, "keterangan is required"},
		{"missing jumlah", `{"tanggal":"2024-05-01","keterangan":"x","tipe":"pemasukan"}`, "jumlah is required"},
		{"negative jumlah", `{"tanggal":"2024-05-01","keterangan":"x","jumlah":-5,"tipe":"pemasukan"}`, "jumlah must be a non-negative whole number"},
		{"fractional jumlah", `{"tanggal":"2024-05-01","keterangan":"x","jumlah":10.5,"tipe":"pemasukan"}`, "jumlah must be a non-negative whole number"},
		{"huge jumlah", `{"tanggal":"2024-05-01","keterangan":"x","jumlah":99999999999999999999,"tipe":"pemasukan"}`, "jumlah is too large"},
		{"bad tipe", `{"tanggal":"2024-05-01","keterangan":"x","jumlah":1,"tipe":"transfer"}`, "tipe must be pemasukan or pengeluaran"},
		{"missing tanggal", `{"keterangan":"x","jumlah":1,"tipe":"pemasukan"}`, "tanggal is required"},
		{"bad tanggal", `{"tanggal":"kemarin","keterangan":"x","jumlah":1,"tipe":"pemasukan"}`, "tanggal must be RFC3339 or YYYY-MM-DD"},
	}
	for _, tt := range invalid {
		t.Run("returns 400 for "+tt.name, func(t *testing.T) {
			txSvc := &mockTransactionService{
				createTransactionFn: func(context.Context, services.NewTransaction) (*models.Transaction, error) {
					t.Fatal("service must not be called for invalid input")
					return nil, nil
				},
			}
			r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

			rec := doRequest(r, http.MethodPost, "/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			result := parseJSON(t, rec)
			assertErrorCode(t, result, "INVALID_INPUT")
			assertDetail(t, result, tt.detail)
		})
	}

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodPost, "/transactions", `{bad`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 500 when the store fails", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(context.Context, services.NewTransaction) (*models.Transaction, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("disk full"))
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit))

		rec := doRequest(r, http.MethodPost, "/transactions",
			`{"tanggal":"2024-05-01","keterangan":"x","jumlah":1,"tipe":"pemasukan"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INTERNAL_ERROR")
		if len(audit.calls) != 0 {
			t.Error("failed create must not be audited")
		}
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("wraps items", func(t *testing.T) {
		txSvc := &mockTransactionService{
			listTransactionsFn: func(context.Context, services.TransactionFilter) ([]models.Transaction, error) {
				return []models.Transaction{{Base: models.Base{ID: "a"}}, {Base: models.Base{ID: "b"}}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/transactions", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		items, ok := parseJSON(t, rec)["items"].([]interface{})
		if !ok || len(items) != 2 {
			t.Fatalf("expected 2 items, got %v", items)
		}
	})

	t.Run("empty ledger is an empty array", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))
		rec := doRequest(r, http.MethodGet, "/transactions", "")
		if rec.Body.String() != `{"items":[]}` {
			t.Errorf("expected empty items array, got %s", rec.Body.String())
		}
	})

	t.Run("passes filters", func(t *testing.T) {
		var got services.TransactionFilter
		txSvc := &mockTransactionService{
			listTransactionsFn: func(_ context.Context, f services.TransactionFilter) ([]models.Transaction, error) {
				got = f
				return nil, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/transactions?from_date=2024-01-01&to_date=2024-01-31&tipe=income", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.FromDate == nil || got.ToDate == nil || got.Type == nil || *got.Type != models.TransactionTypeIncome {
			t.Errorf("unexpected filter %+v", got)
		}
	})

	t.Run("rejects bad filters", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/transactions?from_date=yesterday", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for bad date, got %d", rec.Code)
		}
		rec = doRequest(r, http.MethodGet, "/transactions?tipe=transfer", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for bad type, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TRANSACTION_TYPE")
	})
}

func TestTransactionHandler_GetStats(t *testing.T) {
	txSvc := &mockTransactionService{
		getStatsFn: func(context.Context, services.TransactionFilter) (*models.StatsSummary, error) {
			return &models.StatsSummary{Pemasukan: 500000, Pengeluaran: 200000, Saldo: 300000}, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["pemasukan"] != float64(500000) || result["pengeluaran"] != float64(200000) || result["saldo"] != float64(300000) {
		t.Errorf("unexpected stats %v", result)
	}
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	txSvc := &mockTransactionService{
		getTransactionByIDFn: func(context.Context, string) (*models.Transaction, error) {
			return nil, apperrors.ErrTransactionNotFound
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/transactions/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns message and id", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, audit))

		rec := doRequest(r, http.MethodDelete, "/transactions/abc", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["id"] != "abc" || result["message"] == "" {
			t.Errorf("unexpected body %v", result)
		}
		if len(audit.calls) != 1 || audit.calls[0].action != services.AuditDeleteTransaction || audit.calls[0].transactionID != "abc" {
			t.Errorf("expected one delete audit entry, got %+v", audit.calls)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(context.Context, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/transactions/abc", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "TRANSACTION_NOT_FOUND")
		assertDetail(t, result, "Transaction not found")
	})
}

func TestParseFlexibleTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), false},
		{"2024-05-01T10:30:00Z", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), false},
		{"2024-05-01T17:30:00+07:00", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), false},
		{"2024-05-01T10:30:00.123Z", time.Date(2024, 5, 1, 10, 30, 0, 123000000, time.UTC), false},
		{"01/05/2024", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFlexibleTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
