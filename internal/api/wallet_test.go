package api

import (
	"errors"
	"net/http"
	"testing"

	"split_wallet/internal/wallet"

	"github.com/stretchr/testify/require"
)

func TestStatusForWalletError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{wallet.ErrWalletNotFound, http.StatusNotFound},
		{wallet.ErrTargetWalletNotFound, http.StatusNotFound},
		{wallet.ErrWalletNameRequired, http.StatusBadRequest},
		{wallet.ErrDuplicateWalletName, http.StatusBadRequest},
		{wallet.ErrWalletLimitExceeded, http.StatusBadRequest},
		{wallet.ErrDuplicateMainWallet, http.StatusBadRequest},
		{wallet.ErrMainWalletImmutable, http.StatusBadRequest},
		{wallet.ErrNonZeroBalance, http.StatusBadRequest},
		{wallet.ErrInvalidAmount, http.StatusBadRequest},
		{wallet.ErrInvalidPercentage, http.StatusBadRequest},
		{wallet.ErrInvalidSplit, http.StatusBadRequest},
		{wallet.ErrCannotSplitToMainWallet, http.StatusBadRequest},
		{wallet.ErrInsufficientFunds, http.StatusBadRequest},
		{errors.New("store unreachable"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, statusForWalletError(tc.err), tc.err.Error())
	}
}
