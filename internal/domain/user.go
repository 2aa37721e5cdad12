package domain

// User Model
type User struct {
	ID        uint     `gorm:"primaryKey" json:"id"`                                    // Primary key
	Name      string   `gorm:"size:100" json:"name"`                                    // Optional display name
	Email     *string  `gorm:"uniqueIndex;size:191" json:"email,omitempty"`             // Unique email, nullable
	Phone     *string  `gorm:"uniqueIndex;size:32" json:"phone,omitempty"`              // Unique phone, nullable
	Password  string   `gorm:"not null" json:"-"`                                       // Hashed password, never serialized
	CreatedAt int64    `gorm:"autoCreateTime:milli" json:"created_at"`                  // Timestamp of creation in milliseconds
	Wallets   []Wallet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-many relationship with Wallet
}
