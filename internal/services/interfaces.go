package services

import (
	"context"
	"time"

	"asrama/internal/models"
)

// TransactionFilter holds optional filter parameters shared by the list and stats queries.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
}

// NewTransaction is the validated-on-create input for a ledger entry.
type NewTransaction struct {
	Tanggal    time.Time
	Penghuni   string
	Kamar      string
	Keterangan string
	Jumlah     int64
	Tipe       models.TransactionType
}

// TransactionServicer defines the contract for the dormitory ledger.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	GetStats(ctx context.Context, filter TransactionFilter) (*models.StatsSummary, error)
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, input NewTransaction) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, action, transactionID, ipAddress string, changes map[string]interface{})
}
