package models

// AuditLog records ledger mutations made with the admin token.
type AuditLog struct {
	Base
	Action        string `gorm:"not null;index" json:"action"`
	TransactionID string `gorm:"type:uuid;index" json:"transaction_id"`
	IPAddress     string `json:"ip_address"`
	Changes       string `json:"changes,omitempty"`
}
