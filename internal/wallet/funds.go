package wallet

import (
	"errors"

	"split_wallet/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Precise monetary arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// SplitInput is one split target. Exactly one of Amount and Percentage must
// be set; percentages resolve against the main wallet balance as read at the
// start of the Split call.
type SplitInput struct {
	WalletID   uint             `json:"wallet_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// SplitResult reports the total moved out of the main wallet.
type SplitResult struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

var oneHundred = decimal.NewFromInt(100)

// Deposit credits external funds to the user's main wallet and appends a
// DEPOSIT ledger entry in the same store transaction. Returns the updated
// main wallet.
func (s *Service) Deposit(userID uint, amount decimal.Decimal) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	main, err := s.EnsureMainWallet(userID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Increment main wallet balance
		if err := tx.Model(&domain.Wallet{}).
			Where("id = ?", main.ID).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		// Record the deposit in the ledger
		entry := domain.Transaction{
			WalletID: main.ID,
			UserID:   userID,
			Amount:   amount,
			Type:     domain.TxDeposit,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.First(main, main.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return main, nil
}

// Withdraw debits the user's main wallet and appends a WITHDRAW ledger entry.
// The debit is guarded against the live balance inside the transaction, so a
// concurrent withdrawal cannot drive the balance negative.
func (s *Service) Withdraw(userID uint, amount decimal.Decimal) (*domain.Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	main, err := s.EnsureMainWallet(userID)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Guarded debit: zero rows affected means the balance moved under us
		res := tx.Model(&domain.Wallet{}).
			Where("id = ? AND balance >= ?", main.ID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		entry := domain.Transaction{
			WalletID: main.ID,
			UserID:   userID,
			Amount:   amount.Neg(),
			Type:     domain.TxWithdraw,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.First(main, main.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return main, nil
}

// Split moves funds from the main wallet into one or more target wallets.
//
// All percentages resolve against the main balance snapshot taken here, not
// against a balance shrinking per transfer. Validation runs before any write;
// the debit, the SPLIT entry, every target credit and every TRANSFER entry
// then execute as one store transaction.
func (s *Service) Split(userID uint, splits []SplitInput) (*SplitResult, error) {
	if len(splits) == 0 {
		return nil, ErrInvalidSplit
	}
	main, err := s.EnsureMainWallet(userID)
	if err != nil {
		return nil, err
	}
	base := main.Balance // percentage base for this whole call

	resolved := make([]decimal.Decimal, len(splits))
	total := decimal.Zero
	for i, sp := range splits {
		switch {
		case sp.Amount != nil && sp.Percentage != nil:
			return nil, ErrInvalidSplit
		case sp.Amount != nil:
			if sp.Amount.LessThanOrEqual(decimal.Zero) {
				return nil, ErrInvalidAmount
			}
			resolved[i] = sp.Amount.Round(2)
		case sp.Percentage != nil:
			if sp.Percentage.LessThanOrEqual(decimal.Zero) || sp.Percentage.GreaterThan(oneHundred) {
				return nil, ErrInvalidPercentage
			}
			resolved[i] = base.Mul(*sp.Percentage).Div(oneHundred).Round(2)
		default:
			return nil, ErrInvalidSplit
		}
		// Ensure the target wallet exists, belongs to the user and is not main
		var target domain.Wallet
		err := s.db.Where("id = ? AND user_id = ?", sp.WalletID, userID).First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetWalletNotFound
		}
		if err != nil {
			return nil, err
		}
		if target.IsMain {
			return nil, ErrCannotSplitToMainWallet
		}
		total = total.Add(resolved[i])
	}
	if total.GreaterThan(base) {
		return nil, ErrInsufficientFunds
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Guarded debit of the main wallet; re-validates the balance read
		// above against the live row
		res := tx.Model(&domain.Wallet{}).
			Where("id = ? AND balance >= ?", main.ID, total).
			Update("balance", gorm.Expr("balance - ?", total))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		// One SPLIT entry for the debit on main
		out := domain.Transaction{
			WalletID: main.ID,
			UserID:   userID,
			Amount:   total.Neg(),
			Type:     domain.TxSplit,
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}
		// Credit each target and record a TRANSFER entry per target
		for i, sp := range splits {
			if err := tx.Model(&domain.Wallet{}).
				Where("id = ?", sp.WalletID).
				Update("balance", gorm.Expr("balance + ?", resolved[i])).Error; err != nil {
				return err
			}
			in := domain.Transaction{
				WalletID: sp.WalletID,
				UserID:   userID,
				Amount:   resolved[i],
				Type:     domain.TxTransfer,
			}
			if err := tx.Create(&in).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SplitResult{TotalAmount: total}, nil
}
