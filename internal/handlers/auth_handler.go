package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/dls-barber/internal/auth"
	"github.com/BruksfildServices01/dls-barber/internal/httperr"
	"github.com/BruksfildServices01/dls-barber/internal/httpresp"
	"github.com/BruksfildServices01/dls-barber/internal/middleware"
	"github.com/BruksfildServices01/dls-barber/internal/models"
	"github.com/BruksfildServices01/dls-barber/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	tokens      *auth.TokenService
	phoneRegion string

	// emailDomainValid resolves the MX/A records of the email domain.
	emailDomainValid func(email string) bool
}

// NewAuthHandler skips the email domain lookup when verifyDomain is false.
func NewAuthHandler(db *gorm.DB, tokens *auth.TokenService, phoneRegion string, verifyDomain bool) *AuthHandler {
	check := validators.IsEmailDomainValid
	if !verifyDomain {
		check = func(string) bool { return true }
	}
	return &AuthHandler{
		db:               db,
		tokens:           tokens,
		phoneRegion:      phoneRegion,
		emailDomainValid: check,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,max=100"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Phone    string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	email := validators.NormalizeEmail(req.Email)

	if !h.emailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	phone, ok := h.normalizePhone(c, req.Phone)
	if !ok {
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		httperr.BadRequest(c, "user_already_exists", "Username or email already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create the account.")
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        phone,
		Role:         models.RoleUser,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsDuplicateKey(err) {
			httperr.BadRequest(c, "user_already_exists", "Username or email already registered.")
			return
		}
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not sign in.")
		return
	}

	httpresp.Created(c, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
			return
		}
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	token, err := h.tokens.Issue(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not sign in.")
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	httpresp.OK(c, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	phone, ok := h.normalizePhone(c, req.Phone)
	if !ok {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Updates(map[string]any{
			"full_name": fullName,
			"phone":     phone,
		}).Error; err != nil {
		respondError(c, err)
		return
	}
	user.FullName = fullName
	user.Phone = phone

	httpresp.OK(c, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.BadRequest(c, "invalid_current_password", "Current password is incorrect.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not change the password.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("password_hash", string(hashed)).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"message": "Password changed successfully"})
}

// Verify only runs behind AuthMiddleware, so reaching it means the token is
// valid.
func (h *AuthHandler) Verify(c *gin.Context) {
	id, _ := middleware.UserID(c)
	httpresp.OK(c, gin.H{
		"valid": true,
		"user": gin.H{
			"id":       id,
			"username": c.GetString(middleware.ContextUsername),
			"role":     c.GetString(middleware.ContextUserRole),
		},
	})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users := []models.User{}
	if err := h.db.WithContext(c.Request.Context()).
		Order("role DESC, created_at DESC").
		Find(&users).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"users": users})
}

// --------- Helpers ---------

func (h *AuthHandler) currentUser(c *gin.Context) (*models.User, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
		return nil, false
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	return &user, true
}

func (h *AuthHandler) normalizePhone(c *gin.Context, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	phone, err := validators.NormalizePhone(raw, h.phoneRegion)
	if err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "validation_error", "Invalid data.",
			map[string]string{"phone": "invalid phone number"})
		return "", false
	}
	return phone, true
}
