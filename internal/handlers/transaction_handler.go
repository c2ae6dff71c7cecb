package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "asrama/internal/errors"
	"asrama/internal/models"
	"asrama/internal/services"
	"asrama/internal/validator"
)

var maxJumlah = decimal.NewFromInt(math.MaxInt64)

// TransactionHandler handles ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Jumlah is accepted as a JSON number or numeric string and must be a whole,
// non-negative Rupiah amount.
type CreateTransactionRequest struct {
	Tanggal    string           `json:"tanggal" binding:"required" example:"2024-05-01"`
	Penghuni   string           `json:"penghuni" binding:"max=100" example:"Budi"`
	Kamar      string           `json:"kamar" binding:"max=50" example:"A-12"`
	Keterangan string           `json:"keterangan" binding:"required,notblank,max=500" example:"Iuran bulanan"`
	Jumlah     *decimal.Decimal `json:"jumlah" binding:"required" swaggertype:"number" example:"150000"`
	Tipe       string           `json:"tipe" binding:"required,transaction_type" example:"pemasukan"`
}

// TransactionListResponse wraps the ledger listing.
type TransactionListResponse struct {
	Items []models.Transaction `json:"items"`
}

// DeleteTransactionResponse confirms a removal.
type DeleteTransactionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ListTransactions returns the whole ledger
// @Summary     List transactions
// @Description List every ledger entry in insertion order, optionally filtered
// @Tags        transactions
// @Produce     json
// @Param       from_date query string false "Earliest tanggal (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Latest tanggal (RFC3339 or YYYY-MM-DD)"
// @Param       tipe      query string false "pemasukan or pengeluaran"
// @Success     200 {object} TransactionListResponse
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if items == nil {
		items = []models.Transaction{}
	}

	c.JSON(http.StatusOK, TransactionListResponse{Items: items})
}

// GetStats returns the ledger totals
// @Summary     Ledger statistics
// @Description Total income, total expense and balance over the same rows the list returns
// @Tags        transactions
// @Produce     json
// @Param       from_date query string false "Earliest tanggal (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string false "Latest tanggal (RFC3339 or YYYY-MM-DD)"
// @Param       tipe      query string false "pemasukan or pengeluaran"
// @Success     200 {object} models.StatsSummary
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats [get]
func (h *TransactionHandler) GetStats(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.transactionService.GetStats(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	v := c.Query("tipe")
	if v == "" {
		v = c.Query("type")
	}
	if v != "" {
		tipe, ok := models.ParseTransactionType(v)
		if !ok {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Type = &tipe
	}

	return filter, nil
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// CreateTransaction appends an entry to the ledger
// @Summary     Create a transaction
// @Description Record an income (pemasukan) or expense (pengeluaran)
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    AdminToken
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid or missing admin token"
// @Failure     503 {object} ErrorResponse "Admin token not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, validator.Describe(err)))
		return
	}

	input, err := req.toNewTransaction()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), services.AuditCreateTransaction, transaction.ID, c.ClientIP(),
		map[string]interface{}{"tipe": transaction.Tipe, "jumlah": transaction.Jumlah, "keterangan": transaction.Keterangan})

	c.JSON(http.StatusCreated, transaction)
}

func (r *CreateTransactionRequest) toNewTransaction() (services.NewTransaction, error) {
	tanggal, err := parseFlexibleTime(r.Tanggal)
	if err != nil {
		return services.NewTransaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "tanggal must be RFC3339 or YYYY-MM-DD")
	}

	jumlah := *r.Jumlah
	if jumlah.IsNegative() || !jumlah.IsInteger() {
		return services.NewTransaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "jumlah must be a non-negative whole number")
	}
	if jumlah.GreaterThan(maxJumlah) {
		return services.NewTransaction{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "jumlah is too large")
	}

	tipe, _ := models.ParseTransactionType(r.Tipe)
	return services.NewTransaction{
		Tanggal:    tanggal,
		Penghuni:   r.Penghuni,
		Kamar:      r.Kamar,
		Keterangan: r.Keterangan,
		Jumlah:     jumlah.IntPart(),
		Tipe:       tipe,
	}, nil
}

// DeleteTransaction removes an entry from the ledger
// @Summary     Delete a transaction
// @Description Irreversibly remove a ledger entry
// @Tags        transactions
// @Produce     json
// @Security    AdminToken
// @Param       id path string true "Transaction ID"
// @Success     200 {object} DeleteTransactionResponse "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Invalid or missing admin token"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Admin token not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	deleted, err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), services.AuditDeleteTransaction, deleted.ID, c.ClientIP(),
		map[string]interface{}{"tipe": deleted.Tipe, "jumlah": deleted.Jumlah})

	c.JSON(http.StatusOK, DeleteTransactionResponse{Message: "Transaksi dihapus", ID: deleted.ID})
}
