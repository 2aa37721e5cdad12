// Package wallet implements the wallet and ledger core: invariant
// validation, fund movement (deposit, withdraw, split) and transaction
// history. Callers should match the sentinel errors with errors.Is.
package wallet

import "errors"

var (
	// Validation errors (client-fixable).
	ErrWalletNameRequired      = errors.New("wallet name is required")
	ErrDuplicateWalletName     = errors.New("wallet with this name already exists")
	ErrWalletLimitExceeded     = errors.New("maximum of 5 wallets allowed per user")
	ErrDuplicateMainWallet     = errors.New("main wallet already exists")
	ErrMainWalletImmutable     = errors.New("main wallet cannot be renamed or deleted")
	ErrNonZeroBalance          = errors.New("cannot delete wallet with remaining balance")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidPercentage       = errors.New("percentage must be between 1-100")
	ErrInvalidSplit            = errors.New("each split must have either amount or percentage")
	ErrCannotSplitToMainWallet = errors.New("cannot split funds to main wallet")

	// Not-found errors. A wallet owned by another user is reported the
	// same as an absent one.
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrTargetWalletNotFound = errors.New("target wallet not found")

	// Consistency errors.
	ErrInsufficientFunds = errors.New("insufficient funds in main wallet")
)
