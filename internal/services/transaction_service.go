package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "asrama/internal/errors"
	"asrama/internal/events"
	"asrama/internal/logger"
	"asrama/internal/models"
	"asrama/internal/uuid"
)

const maxKeteranganLength = 500

// transactionService handles the dormitory ledger.
type transactionService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionServicer. Successful mutations
// are announced on publisher; a nil publisher disables notifications.
func NewTransactionService(db *gorm.DB, publisher events.Publisher) TransactionServicer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &transactionService{db: db, publisher: publisher}
}

// ListTransactions returns the ledger in insertion order.
func (s *transactionService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	q := applyTransactionFilters(s.db.WithContext(ctx).Model(&models.Transaction{}), filter)

	transactions := []models.Transaction{}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetStats totals income and expense over the same rows ListTransactions returns.
// One aggregate statement keeps the totals consistent with each other.
func (s *transactionService) GetStats(ctx context.Context, filter TransactionFilter) (*models.StatsSummary, error) {
	q := applyTransactionFilters(s.db.WithContext(ctx).Model(&models.Transaction{}), filter)

	var totals struct {
		Pemasukan   int64
		Pengeluaran int64
	}
	err := q.Select(
		"COALESCE(SUM(CASE WHEN tipe = ? THEN jumlah ELSE 0 END), 0) AS pemasukan, "+
			"COALESCE(SUM(CASE WHEN tipe = ? THEN jumlah ELSE 0 END), 0) AS pengeluaran",
		models.TransactionTypeIncome, models.TransactionTypeExpense,
	).Scan(&totals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &models.StatsSummary{
		Pemasukan:   totals.Pemasukan,
		Pengeluaran: totals.Pengeluaran,
		Saldo:       totals.Pemasukan - totals.Pengeluaran,
	}, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("tanggal >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("tanggal <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("tipe = ?", *f.Type)
	}
	return q
}

// GetTransactionByID retrieves a single ledger entry.
func (s *transactionService) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	return findTransaction(s.db.WithContext(ctx), id)
}

func findTransaction(db *gorm.DB, id string) (*models.Transaction, error) {
	canonical, err := uuid.Parse(id)
	if err != nil {
		// A malformed id can never match a stored row.
		return nil, apperrors.ErrTransactionNotFound
	}

	var transaction models.Transaction
	if err := db.Where("id = ?", canonical).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// CreateTransaction validates input and appends it to the ledger.
func (s *transactionService) CreateTransaction(ctx context.Context, input NewTransaction) (*models.Transaction, error) {
	tipe, err := validateNewTransaction(&input)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		Tanggal:    input.Tanggal.UTC(),
		Penghuni:   strings.TrimSpace(input.Penghuni),
		Kamar:      strings.TrimSpace(input.Kamar),
		Keterangan: strings.TrimSpace(input.Keterangan),
		Jumlah:     input.Jumlah,
		Tipe:       tipe,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(transaction).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(ctx, events.ActionCreated, transaction)
	return transaction, nil
}

func validateNewTransaction(input *NewTransaction) (models.TransactionType, error) {
	keterangan := strings.TrimSpace(input.Keterangan)
	if keterangan == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "keterangan is required")
	}
	if utf8.RuneCountInString(keterangan) > maxKeteranganLength {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "keterangan must be at most 500 characters")
	}
	if input.Jumlah < 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "jumlah must be a non-negative whole number")
	}
	tipe, ok := models.ParseTransactionType(string(input.Tipe))
	if !ok {
		return "", apperrors.ErrInvalidTransactionType
	}
	if input.Tanggal.IsZero() {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "tanggal is required")
	}
	return tipe, nil
}

// DeleteTransaction removes a ledger entry irreversibly and returns it.
func (s *transactionService) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var deleted *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := findTransaction(tx, id)
		if err != nil {
			return err
		}

		result := tx.Delete(transaction)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrTransactionNotFound
		}
		deleted = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, events.ActionDeleted, deleted)
	return deleted, nil
}

// notify publishes a change event. The mutation is already committed, so
// delivery failures are only logged.
func (s *transactionService) notify(ctx context.Context, action events.Action, tx *models.Transaction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, events.NewLedgerEvent(action, tx)); err != nil {
		logger.Get().Warnw("failed to publish ledger event",
			"error", err,
			"action", action,
			"id", tx.ID,
		)
	}
}
