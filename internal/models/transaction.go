package models

import (
	"strings"
	"time"
)

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "pemasukan"
	TransactionTypeExpense TransactionType = "pengeluaran"
)

// ParseTransactionType normalizes a wire value. The English names are accepted
// as aliases of the Indonesian ones.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pemasukan", "income":
		return TransactionTypeIncome, true
	case "pengeluaran", "expense":
		return TransactionTypeExpense, true
	}
	return "", false
}

// Valid reports whether t is one of the two ledger types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is one income or expense entry of the dormitory ledger.
// Jumlah is in whole Rupiah.
type Transaction struct {
	Base
	Tanggal    time.Time       `gorm:"not null" json:"tanggal"`
	Penghuni   string          `gorm:"size:100" json:"penghuni"`
	Kamar      string          `gorm:"size:50" json:"kamar"`
	Keterangan string          `gorm:"size:500;not null" json:"keterangan"`
	Jumlah     int64           `gorm:"type:bigint;not null" json:"jumlah"`
	Tipe       TransactionType `gorm:"size:20;not null;index" json:"tipe"`
}

// StatsSummary holds the totals derived from the ledger.
type StatsSummary struct {
	Pemasukan   int64 `json:"pemasukan"`
	Pengeluaran int64 `json:"pengeluaran"`
	Saldo       int64 `json:"saldo"`
}
