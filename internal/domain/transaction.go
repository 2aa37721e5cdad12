package domain

import (
	"github.com/shopspring/decimal" // Precise monetary arithmetic
)

// Ledger entry types. Amounts are signed: positive = credit, negative = debit.
const (
	TxDeposit  = "DEPOSIT"  // External funds credited to the main wallet
	TxSplit    = "SPLIT"    // Debit on the main wallet for a split operation
	TxTransfer = "TRANSFER" // Credit on a split target wallet
	TxWithdraw = "WITHDRAW" // Debit on the main wallet for a withdrawal
)

// Transaction Model (append-only ledger entry)
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                       // Primary key
	WalletID  uint            `gorm:"index;not null" json:"wallet_id"`            // Foreign key to Wallet
	UserID    uint            `gorm:"index;not null" json:"user_id"`              // Foreign key to User
	Amount    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`  // Signed amount of the balance change
	Type      string          `gorm:"size:16;not null" json:"type"`               // Transaction type: DEPOSIT, SPLIT, TRANSFER, WITHDRAW
	CreatedAt int64           `gorm:"autoCreateTime:milli" json:"created_at"`     // Timestamp of creation in milliseconds
}
