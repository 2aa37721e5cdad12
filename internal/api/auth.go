package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"split_wallet/internal/domain" // Importing domain models
	"split_wallet/internal/utils"  // Utility functions
	"split_wallet/internal/wallet" // Wallet core service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Precise monetary arithmetic
	"golang.org/x/crypto/bcrypt"    // Password hashing
	"gorm.io/gorm"                  // GORM ORM library
)

// SignupRequest represents a signup request. At least one of email and phone
// must be provided.
type SignupRequest struct {
	Name     string `json:"name"`                        // Optional display name
	Email    string `json:"email"`                       // Email address
	Phone    string `json:"phone"`                       // Phone number
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`                       // Email address
	Phone    string `json:"phone"`                       // Phone number
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the signed JWT
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// isValidEmail checks the email shape (local@domain)
func isValidEmail(email string) bool {
	matched, _ := regexp.MatchString(`^[^@\s]+@[^@\s]+\.[^@\s]+$`, email)
	return matched
}

// isValidPhone checks the phone is digits with an optional leading plus
func isValidPhone(phone string) bool {
	matched, _ := regexp.MatchString(`^\+?[0-9]{7,15}$`, phone)
	return matched
}

// isValidPassword checks if the password length is between 8 and 15 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 15
}

// SignupHandler registers a new user and creates their main wallet in the
// same database transaction
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		phone := strings.TrimSpace(req.Phone)
		// At least one of email/phone is required as the login identity
		if email == "" && phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or phone is required"})
			return
		}
		if email != "" && !isValidEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		if phone != "" && !isValidPhone(phone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-15 characters"})
			return
		}
		// Hash the password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Name:     strings.TrimSpace(req.Name), // Optional display name
			Password: string(hash),                // Hashed password
		}
		if email != "" {
			user.Email = &email
		}
		if phone != "" {
			user.Phone = &phone
		}
		// Create the user and their main wallet atomically
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			main := domain.Wallet{
				UserID:  user.ID,
				Name:    wallet.MainWalletName,
				IsMain:  true,
				Balance: decimal.Zero,
			}
			return tx.Create(&main).Error
		})
		if err != nil {
			// Duplicate email/phone trips the unique index
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user by email or phone and returns a JWT
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		phone := strings.TrimSpace(req.Phone)
		if email == "" && phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or phone is required"})
			return
		}
		var user domain.User // Fetch user from database
		query := db
		if email != "" {
			query = query.Where("email = ?", email)
		} else {
			query = query.Where("phone = ?", phone)
		}
		if err := query.First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// ProfileResponse is the authenticated user's profile with their wallets
type ProfileResponse struct {
	ID        uint            `json:"id"`              // User ID
	Name      string          `json:"name"`            // Display name
	Email     *string         `json:"email,omitempty"` // Email address
	Phone     *string         `json:"phone,omitempty"` // Phone number
	CreatedAt int64           `json:"created_at"`      // Timestamp of creation
	Wallets   []domain.Wallet `json:"wallets"`         // All wallets, main first
}

// ProfileHandler returns the authenticated user's profile and wallets
func ProfileHandler(db *gorm.DB, svc *wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		wallets, err := svc.List(userID) // Ensures the main wallet, then reads
		if err != nil {
			respondWalletError(c, userID, "get_profile", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": ProfileResponse{
			ID:        user.ID,        // User ID
			Name:      user.Name,      // Display name
			Email:     user.Email,     // Email address
			Phone:     user.Phone,     // Phone number
			CreatedAt: user.CreatedAt, // Timestamp of creation
			Wallets:   wallets,        // All wallets, main first
		}})
	}
}
