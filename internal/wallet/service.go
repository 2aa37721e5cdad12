package wallet

import (
	"errors"
	"strings"

	"split_wallet/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Precise monetary arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

const (
	// MaxWalletsPerUser is the wallet ceiling per user (1 main + 4 additional).
	MaxWalletsPerUser = 5
	// MainWalletName is the name given to the auto-created main wallet.
	MainWalletName = "Main Wallet"
	// TransactionHistoryLimit bounds history reads to the most recent entries.
	TransactionHistoryLimit = 50
)

// Service exposes the wallet core. It holds only the database handle and
// carries no state between calls.
type Service struct {
	db *gorm.DB
}

// NewService returns a wallet service backed by db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EnsureMainWallet creates a zero-balance main wallet for the user if none
// exists, and returns the main wallet. Idempotent.
func (s *Service) EnsureMainWallet(userID uint) (*domain.Wallet, error) {
	var main domain.Wallet
	err := s.db.Where("user_id = ? AND is_main = ?", userID, true).First(&main).Error
	if err == nil {
		return &main, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// No main wallet yet, self-heal by creating one. The (user_id, name)
	// unique index stops a concurrent first-touch from inserting a second.
	main = domain.Wallet{
		UserID:  userID,
		Name:    MainWalletName,
		IsMain:  true,
		Balance: decimal.Zero,
	}
	if err := s.db.Create(&main).Error; err != nil {
		return nil, err
	}
	return &main, nil
}

// Create inserts a new zero-balance wallet after running the invariant
// checks: main-wallet uniqueness, wallet-count ceiling and per-user name
// uniqueness. The percentage is stored as an inert allocation hint.
func (s *Service) Create(userID uint, name string, isMain bool, percentage *decimal.Decimal) (*domain.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrWalletNameRequired
	}
	if isMain {
		var existing domain.Wallet
		err := s.db.Where("user_id = ? AND is_main = ?", userID, true).First(&existing).Error
		if err == nil {
			return nil, ErrDuplicateMainWallet
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	// Check wallet count limit (1 main + 4 additional = 5 total)
	var count int64
	if err := s.db.Model(&domain.Wallet{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= MaxWalletsPerUser {
		return nil, ErrWalletLimitExceeded
	}
	// Check if wallet name already exists for this user
	var dup domain.Wallet
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&dup).Error
	if err == nil {
		return nil, ErrDuplicateWalletName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w := domain.Wallet{
		UserID:     userID,
		Name:       name,
		IsMain:     isMain,
		Balance:    decimal.Zero,
		Percentage: percentage,
	}
	if err := s.db.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns all wallets of the user, main wallet first, then by name
// ascending. Ensures the main wallet exists before reading.
func (s *Service) List(userID uint) ([]domain.Wallet, error) {
	if _, err := s.EnsureMainWallet(userID); err != nil {
		return nil, err
	}
	var wallets []domain.Wallet
	if err := s.db.Where("user_id = ?", userID).
		Order("is_main desc").
		Order("name asc").
		Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

// Get returns the wallet by id if it belongs to the user. A wallet that is
// absent or owned by someone else is ErrWalletNotFound either way.
func (s *Service) Get(walletID, userID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	err := s.db.Where("id = ? AND user_id = ?", walletID, userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Rename changes a wallet's name. The main wallet is immutable and the new
// name must not collide with another wallet of the same user.
func (s *Service) Rename(walletID, userID uint, name string) (*domain.Wallet, error) {
	w, err := s.Get(walletID, userID)
	if err != nil {
		return nil, err
	}
	if w.IsMain {
		return nil, ErrMainWalletImmutable
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrWalletNameRequired
	}
	var dup domain.Wallet
	err = s.db.Where("user_id = ? AND name = ? AND id <> ?", userID, name, walletID).First(&dup).Error
	if err == nil {
		return nil, ErrDuplicateWalletName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.db.Model(w).Update("name", name).Error; err != nil {
		return nil, err
	}
	w.Name = name
	return w, nil
}

// Delete removes a non-main wallet with a zero balance. Balance mutations
// are the fund engine's job; deletion never moves money.
func (s *Service) Delete(walletID, userID uint) error {
	w, err := s.Get(walletID, userID)
	if err != nil {
		return err
	}
	if w.IsMain {
		return ErrMainWalletImmutable
	}
	if w.Balance.GreaterThan(decimal.Zero) {
		return ErrNonZeroBalance
	}
	return s.db.Delete(w).Error
}

// Transactions returns up to TransactionHistoryLimit ledger entries for the
// wallet, newest first. Ownership is checked the same way as Get.
func (s *Service) Transactions(walletID, userID uint) ([]domain.Transaction, error) {
	if _, err := s.Get(walletID, userID); err != nil {
		return nil, err
	}
	var entries []domain.Transaction
	if err := s.db.Where("wallet_id = ?", walletID).
		Order("created_at desc").
		Order("id desc").
		Limit(TransactionHistoryLimit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
