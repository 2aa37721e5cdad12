package wallet

import (
	"testing"

	"split_wallet/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func amountPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// snapshot captures all balances and the ledger row count for a user, used to
// prove failed operations leave no partial writes.
type snapshot struct {
	balances map[uint]decimal.Decimal
	entries  int64
}

func takeSnapshot(t *testing.T, db *gorm.DB, userID uint) snapshot {
	t.Helper()
	var wallets []domain.Wallet
	require.NoError(t, db.Where("user_id = ?", userID).Find(&wallets).Error)
	s := snapshot{balances: make(map[uint]decimal.Decimal)}
	for _, w := range wallets {
		s.balances[w.ID] = w.Balance
	}
	require.NoError(t, db.Model(&domain.Transaction{}).
		Where("user_id = ?", userID).Count(&s.entries).Error)
	return s
}

func requireUnchanged(t *testing.T, db *gorm.DB, userID uint, before snapshot) {
	t.Helper()
	after := takeSnapshot(t, db, userID)
	require.Equal(t, before.entries, after.entries, "ledger grew on a failed operation")
	require.Equal(t, len(before.balances), len(after.balances))
	for id, want := range before.balances {
		got, ok := after.balances[id]
		require.True(t, ok)
		require.Truef(t, got.Equal(want), "wallet %d balance changed: %s -> %s", id, want, got)
	}
}

func TestDepositInvalidAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	_, err := svc.Deposit(userID, decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Deposit(userID, dec(-100))
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDepositCreditsMainWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	// No wallet exists yet; deposit must self-heal the main wallet first
	w, err := svc.Deposit(userID, dec(5000))
	require.NoError(t, err)
	require.True(t, w.IsMain)
	require.True(t, w.Balance.Equal(dec(5000)))

	var entries []domain.Transaction
	require.NoError(t, db.Where("wallet_id = ?", w.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, domain.TxDeposit, entries[0].Type)
	require.True(t, entries[0].Amount.Equal(dec(5000)))
	require.Equal(t, userID, entries[0].UserID)
}

func TestWithdraw(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	_, err := svc.Deposit(userID, dec(5000))
	require.NoError(t, err)
	w, err := svc.Withdraw(userID, dec(1500))
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(dec(3500)))

	var entry domain.Transaction
	require.NoError(t, db.Where("type = ?", domain.TxWithdraw).First(&entry).Error)
	require.True(t, entry.Amount.Equal(dec(-1500)))
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	_, err := svc.Deposit(userID, dec(100))
	require.NoError(t, err)
	before := takeSnapshot(t, db, userID)

	_, err = svc.Withdraw(userID, dec(200))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	requireUnchanged(t, db, userID, before)
}

func TestSplitByAmount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	savings, err := svc.Create(userID, "Savings", false, nil)
	require.NoError(t, err)
	main, err := svc.Deposit(userID, dec(5000))
	require.NoError(t, err)

	res, err := svc.Split(userID, []SplitInput{{WalletID: savings.ID, Amount: amountPtr(dec(2000))}})
	require.NoError(t, err)
	require.True(t, res.TotalAmount.Equal(dec(2000)))
	requireBalance(t, db, main.ID, dec(3000))
	requireBalance(t, db, savings.ID, dec(2000))

	// One SPLIT debit on main, one TRANSFER credit on the target
	var out domain.Transaction
	require.NoError(t, db.Where("wallet_id = ? AND type = ?", main.ID, domain.TxSplit).First(&out).Error)
	require.True(t, out.Amount.Equal(dec(-2000)))
	var in domain.Transaction
	require.NoError(t, db.Where("wallet_id = ? AND type = ?", savings.ID, domain.TxTransfer).First(&in).Error)
	require.True(t, in.Amount.Equal(dec(2000)))
}

func TestSplitPercentageBaseStability(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	a, err := svc.Create(userID, "A", false, nil)
	require.NoError(t, err)
	b, err := svc.Create(userID, "B", false, nil)
	require.NoError(t, err)
	main, err := svc.Deposit(userID, dec(10000))
	require.NoError(t, err)

	// Both percentages resolve against the 10000 read at call start, not
	// against the balance left after the first transfer
	res, err := svc.Split(userID, []SplitInput{
		{WalletID: a.ID, Percentage: amountPtr(dec(60))},
		{WalletID: b.ID, Percentage: amountPtr(dec(30))},
	})
	require.NoError(t, err)
	require.True(t, res.TotalAmount.Equal(dec(9000)))
	requireBalance(t, db, a.ID, dec(6000))
	requireBalance(t, db, b.ID, dec(3000))
	requireBalance(t, db, main.ID, dec(1000))
}

func TestSplitMixedAmountAndPercentage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	a, err := svc.Create(userID, "A", false, nil)
	require.NoError(t, err)
	b, err := svc.Create(userID, "B", false, nil)
	require.NoError(t, err)
	main, err := svc.Deposit(userID, dec(1000))
	require.NoError(t, err)

	res, err := svc.Split(userID, []SplitInput{
		{WalletID: a.ID, Amount: amountPtr(dec(250))},
		{WalletID: b.ID, Percentage: amountPtr(dec(50))},
	})
	require.NoError(t, err)
	require.True(t, res.TotalAmount.Equal(dec(750)))
	requireBalance(t, db, a.ID, dec(250))
	requireBalance(t, db, b.ID, dec(500))
	requireBalance(t, db, main.ID, dec(250))
}

func TestSplitConservation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	a, err := svc.Create(userID, "A", false, nil)
	require.NoError(t, err)
	b, err := svc.Create(userID, "B", false, nil)
	require.NoError(t, err)
	c, err := svc.Create(userID, "C", false, nil)
	require.NoError(t, err)
	main, err := svc.Deposit(userID, decimal.RequireFromString("1000.01"))
	require.NoError(t, err)

	res, err := svc.Split(userID, []SplitInput{
		{WalletID: a.ID, Percentage: amountPtr(decimal.RequireFromString("33.33"))},
		{WalletID: b.ID, Amount: amountPtr(decimal.RequireFromString("0.07"))},
		{WalletID: c.ID, Percentage: amountPtr(dec(10))},
	})
	require.NoError(t, err)

	// The main debit equals the sum of target credits exactly
	var wallets []domain.Wallet
	require.NoError(t, db.Where("user_id = ? AND is_main = ?", userID, false).Find(&wallets).Error)
	credited := decimal.Zero
	for _, w := range wallets {
		credited = credited.Add(w.Balance)
	}
	require.True(t, credited.Equal(res.TotalAmount))
	var m domain.Wallet
	require.NoError(t, db.First(&m, main.ID).Error)
	require.True(t, m.Balance.Add(res.TotalAmount).Equal(decimal.RequireFromString("1000.01")))
}

func TestSplitInsufficientFundsIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	savings, err := svc.Create(userID, "Savings", false, nil)
	require.NoError(t, err)
	_, err = svc.Deposit(userID, dec(3000))
	require.NoError(t, err)
	before := takeSnapshot(t, db, userID)

	_, err = svc.Split(userID, []SplitInput{{WalletID: savings.ID, Amount: amountPtr(dec(6000))}})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	requireUnchanged(t, db, userID, before)
}

func TestSplitToMainWallet(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	main, err := svc.Deposit(userID, dec(1000))
	require.NoError(t, err)
	before := takeSnapshot(t, db, userID)

	_, err = svc.Split(userID, []SplitInput{{WalletID: main.ID, Amount: amountPtr(dec(100))}})
	require.ErrorIs(t, err, ErrCannotSplitToMainWallet)
	requireUnchanged(t, db, userID, before)
}

func TestSplitTargetNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	_, err := svc.Deposit(userID, dec(1000))
	require.NoError(t, err)

	_, err = svc.Split(userID, []SplitInput{{WalletID: 99999, Amount: amountPtr(dec(100))}})
	require.ErrorIs(t, err, ErrTargetWalletNotFound)

	// Another user's wallet is indistinguishable from an absent one
	otherEmail := "other@example.com"
	other := domain.User{Email: &otherEmail, Password: "irrelevant"}
	require.NoError(t, db.Create(&other).Error)
	theirs, err := svc.Create(other.ID, "Theirs", false, nil)
	require.NoError(t, err)
	_, err = svc.Split(userID, []SplitInput{{WalletID: theirs.ID, Amount: amountPtr(dec(100))}})
	require.ErrorIs(t, err, ErrTargetWalletNotFound)
}

func TestSplitInputValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	savings, err := svc.Create(userID, "Savings", false, nil)
	require.NoError(t, err)
	_, err = svc.Deposit(userID, dec(1000))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input SplitInput
		want  error
	}{
		{"neither amount nor percentage", SplitInput{WalletID: savings.ID}, ErrInvalidSplit},
		{"both amount and percentage", SplitInput{WalletID: savings.ID, Amount: amountPtr(dec(10)), Percentage: amountPtr(dec(10))}, ErrInvalidSplit},
		{"zero amount", SplitInput{WalletID: savings.ID, Amount: amountPtr(decimal.Zero)}, ErrInvalidAmount},
		{"negative amount", SplitInput{WalletID: savings.ID, Amount: amountPtr(dec(-5))}, ErrInvalidAmount},
		{"zero percentage", SplitInput{WalletID: savings.ID, Percentage: amountPtr(decimal.Zero)}, ErrInvalidPercentage},
		{"percentage over 100", SplitInput{WalletID: savings.ID, Percentage: amountPtr(dec(101))}, ErrInvalidPercentage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := takeSnapshot(t, db, userID)
			_, err := svc.Split(userID, []SplitInput{tc.input})
			require.ErrorIs(t, err, tc.want)
			requireUnchanged(t, db, userID, before)
		})
	}

	_, err = svc.Split(userID, nil)
	require.ErrorIs(t, err, ErrInvalidSplit)
}

func TestBalancesNeverNegative(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	userID := newTestUser(t, db)

	savings, err := svc.Create(userID, "Savings", false, nil)
	require.NoError(t, err)
	_, err = svc.Deposit(userID, dec(100))
	require.NoError(t, err)
	_, err = svc.Split(userID, []SplitInput{{WalletID: savings.ID, Percentage: amountPtr(dec(100))}})
	require.NoError(t, err)

	// Main is drained to zero; further debits must fail
	_, err = svc.Withdraw(userID, dec(1))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	_, err = svc.Split(userID, []SplitInput{{WalletID: savings.ID, Amount: amountPtr(dec(1))}})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var wallets []domain.Wallet
	require.NoError(t, db.Where("user_id = ?", userID).Find(&wallets).Error)
	for _, w := range wallets {
		require.False(t, w.Balance.IsNegative())
	}
}
