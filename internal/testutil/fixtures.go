package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"asrama/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestTransaction inserts a ledger entry of the given type and amount (whole Rupiah).
func CreateTestTransaction(t *testing.T, db *gorm.DB, tipe models.TransactionType, jumlah int64) *models.Transaction {
	t.Helper()

	n := nextID()
	tx := &models.Transaction{
		Tanggal:    time.Now().UTC().Truncate(time.Second),
		Penghuni:   fmt.Sprintf("Penghuni %d", n),
		Kamar:      fmt.Sprintf("A-%d", n),
		Keterangan: fmt.Sprintf("Transaksi %d", n),
		Jumlah:     jumlah,
		Tipe:       tipe,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CountTransactions returns the number of rows in the ledger.
func CountTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return n
}
