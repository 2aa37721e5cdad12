package domain

import (
	"github.com/shopspring/decimal" // Precise monetary arithmetic
)

// Wallet Model
type Wallet struct {
	ID         uint             `gorm:"primaryKey" json:"id"`                                                  // Primary key
	UserID     uint             `gorm:"uniqueIndex:idx_wallet_user_name" json:"user_id"`                       // Foreign key to User
	Name       string           `gorm:"uniqueIndex:idx_wallet_user_name;size:100;not null" json:"name"`        // Wallet name, unique per user
	IsMain     bool             `gorm:"not null;default:false" json:"is_main"`                                 // Exactly one main wallet per user
	Balance    decimal.Decimal  `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`                  // Wallet balance, never negative
	Percentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`                         // Optional allocation hint, not consumed by the split engine
	CreatedAt  int64            `gorm:"autoCreateTime:milli" json:"created_at"`                                // Timestamp of creation in milliseconds
}
