package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"split_wallet/internal/utils"  // Utility functions
	"split_wallet/internal/wallet" // Wallet core service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Precise monetary arithmetic
	"github.com/sirupsen/logrus"    // Logging library
)

// CreateWalletRequest represents a wallet creation request
type CreateWalletRequest struct {
	Name       string           `json:"name" binding:"required"` // Wallet name
	IsMain     bool             `json:"is_main"`                 // Request main wallet creation
	Percentage *decimal.Decimal `json:"percentage"`              // Optional allocation hint
}

// RenameWalletRequest represents a wallet rename request
type RenameWalletRequest struct {
	Name string `json:"name" binding:"required"` // New wallet name
}

// AmountRequest represents a deposit or withdrawal request
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"` // Amount to move
}

// SplitRequest represents a fund split request
type SplitRequest struct {
	Splits []wallet.SplitInput `json:"splits" binding:"required"` // Split targets
}

// statusForWalletError maps a wallet core error to an HTTP status code
func statusForWalletError(err error) int {
	switch {
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, wallet.ErrTargetWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrWalletNameRequired),
		errors.Is(err, wallet.ErrDuplicateWalletName),
		errors.Is(err, wallet.ErrWalletLimitExceeded),
		errors.Is(err, wallet.ErrDuplicateMainWallet),
		errors.Is(err, wallet.ErrMainWalletImmutable),
		errors.Is(err, wallet.ErrNonZeroBalance),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidPercentage),
		errors.Is(err, wallet.ErrInvalidSplit),
		errors.Is(err, wallet.ErrCannotSplitToMainWallet),
		errors.Is(err, wallet.ErrInsufficientFunds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondWalletError writes the mapped status and message for a core error
func respondWalletError(c *gin.Context, userID uint, op string, err error) {
	status := statusForWalletError(err)
	if status == http.StatusInternalServerError {
		// Log the unexpected error with context, hide details from the client
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"op":      op,          // Operation name
			"error":   err.Error(), // Error message
		}).Error("Wallet operation failed")
		c.JSON(status, gin.H{"error": "Operation failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUserID extracts the authenticated user ID from the context
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID") // Set by the JWT middleware
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID.(uint), true
}

// walletIDParam parses the :id path parameter
func walletIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet id"})
		return 0, false
	}
	return uint(id), true
}

// Cache keys for wallet list and per-wallet transaction history
func walletListKey(userID uint) string {
	return "wallets:user:" + strconv.Itoa(int(userID))
}
func txHistoryKey(walletID uint) string {
	return "txhistory:wallet:" + strconv.Itoa(int(walletID))
}

// invalidateWalletCaches drops the user's wallet list cache and the
// transaction history caches of the given wallets
func invalidateWalletCaches(c *gin.Context, userID uint, walletIDs ...uint) {
	val, exists := c.Get("redisClient")
	if !exists {
		return
	}
	rdb, ok := val.(*redis.Client)
	if !ok {
		return
	}
	ctx := context.Background() // Context for Redis operations
	keys := []string{walletListKey(userID)}
	for _, id := range walletIDs {
		keys = append(keys, txHistoryKey(id))
	}
	_ = utils.DeleteCache(ctx, rdb, keys...) // Invalidate affected cache keys
}

// CreateWalletHandler creates an additional wallet for the user (up to 5 total)
func CreateWalletHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CreateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet name is required"})
			return
		}
		w, err := svc.Create(userID, req.Name, req.IsMain, req.Percentage)
		if err != nil {
			respondWalletError(c, userID, "create_wallet", err)
			return
		}
		// Log successful wallet creation
		logrus.WithFields(logrus.Fields{
			"user_id":   userID, // User ID
			"wallet_id": w.ID,   // Wallet ID
			"name":      w.Name, // Wallet name
		}).Info("Wallet created")
		invalidateWalletCaches(c, userID) // Invalidate wallet list cache
		c.JSON(http.StatusCreated, gin.H{"wallet": w})
	}
}

// ListWalletsHandler returns all wallets of the user, main wallet first
func ListWalletsHandler(svc *wallet.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := context.Background()     // Context for Redis operations
		cacheKey := walletListKey(userID) // Cache key for the wallet list
		var cached []gin.H
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"wallets": cached, "cached": true})
			return
		}
		wallets, err := svc.List(userID) // Ensures the main wallet, then reads
		if err != nil {
			respondWalletError(c, userID, "list_wallets", err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, wallets, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"wallets": wallets, "cached": false})
	}
}

// GetWalletHandler returns one wallet owned by the user
func GetWalletHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		w, err := svc.Get(walletID, userID)
		if err != nil {
			respondWalletError(c, userID, "get_wallet", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": w})
	}
}

// RenameWalletHandler renames a non-main wallet
func RenameWalletHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		var req RenameWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet name is required"})
			return
		}
		w, err := svc.Rename(walletID, userID, req.Name)
		if err != nil {
			respondWalletError(c, userID, "rename_wallet", err)
			return
		}
		invalidateWalletCaches(c, userID) // Invalidate wallet list cache
		c.JSON(http.StatusOK, gin.H{"wallet": w})
	}
}

// DeleteWalletHandler deletes a non-main wallet with a zero balance
func DeleteWalletHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		if err := svc.Delete(walletID, userID); err != nil {
			respondWalletError(c, userID, "delete_wallet", err)
			return
		}
		// Log successful wallet deletion
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,   // User ID
			"wallet_id": walletID, // Wallet ID
		}).Info("Wallet deleted")
		invalidateWalletCaches(c, userID, walletID) // Invalidate wallet list and history caches
		c.JSON(http.StatusOK, gin.H{"message": "Wallet deleted successfully"})
	}
}

// DepositHandler credits funds to the user's main wallet
func DepositHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req AmountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		w, err := svc.Deposit(userID, req.Amount)
		if err != nil {
			respondWalletError(c, userID, "deposit", err)
			return
		}
		// Log successful deposit
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"wallet_id": w.ID,                            // Main wallet ID
			"amount":    req.Amount.String(),             // Deposit amount
			"type":      "deposit",                       // Transaction type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Deposit transaction")
		invalidateWalletCaches(c, userID, w.ID) // Invalidate wallet list and history caches
		c.JSON(http.StatusOK, gin.H{"wallet": w})
	}
}

// WithdrawHandler debits funds from the user's main wallet
func WithdrawHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req AmountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		w, err := svc.Withdraw(userID, req.Amount)
		if err != nil {
			respondWalletError(c, userID, "withdraw", err)
			return
		}
		// Log successful withdrawal
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,                          // User ID
			"wallet_id": w.ID,                            // Main wallet ID
			"amount":    req.Amount.String(),             // Withdrawal amount
			"type":      "withdraw",                      // Transaction type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Withdraw transaction")
		invalidateWalletCaches(c, userID, w.ID) // Invalidate wallet list and history caches
		c.JSON(http.StatusOK, gin.H{"wallet": w})
	}
}

// SplitHandler moves funds from the main wallet into one or more targets
func SplitHandler(svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req SplitRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Splits) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one split is required"})
			return
		}
		result, err := svc.Split(userID, req.Splits)
		if err != nil {
			respondWalletError(c, userID, "split", err)
			return
		}
		// Log successful split
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,                          // User ID
			"targets":      len(req.Splits),                 // Number of split targets
			"total_amount": result.TotalAmount.String(),     // Total moved out of main
			"type":         "split",                         // Transaction type
			"timestamp":    time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Split transaction")
		// Invalidate wallet list and history caches of main and every target
		main, mainErr := svc.EnsureMainWallet(userID)
		affected := make([]uint, 0, len(req.Splits)+1)
		if mainErr == nil {
			affected = append(affected, main.ID)
		}
		for _, sp := range req.Splits {
			affected = append(affected, sp.WalletID)
		}
		invalidateWalletCaches(c, userID, affected...)
		c.JSON(http.StatusOK, gin.H{"message": "Funds split successfully", "total_amount": result.TotalAmount})
	}
}

// GetTransactionsHandler returns the most recent ledger entries for a wallet
func GetTransactionsHandler(svc *wallet.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		// Ownership is checked by the service before any history is returned,
		// so the cache is only consulted for wallets the caller may read
		if _, err := svc.Get(walletID, userID); err != nil {
			respondWalletError(c, userID, "get_transactions", err)
			return
		}
		ctx := context.Background()       // Context for Redis operations
		cacheKey := txHistoryKey(walletID) // Cache key for the history
		var cached []gin.H
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"transactions": cached, "cached": true})
			return
		}
		entries, err := svc.Transactions(walletID, userID)
		if err != nil {
			respondWalletError(c, userID, "get_transactions", err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, entries, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"transactions": entries, "cached": false})
	}
}
