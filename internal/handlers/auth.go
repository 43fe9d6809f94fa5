package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/auth"
	"github.com/researchdesk/researchdesk/internal/mailer"
	"github.com/researchdesk/researchdesk/internal/middleware"
	"github.com/researchdesk/researchdesk/internal/models"
	"github.com/researchdesk/researchdesk/internal/types"
	"github.com/researchdesk/researchdesk/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Domain is the cookie domain, set from configuration at startup.
var Domain string

func setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    value,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func setResetSessionCookie(ctx *gin.Context, value string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "reset_session",
		Value:    value,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// alreadyAuthenticated reports whether the request carries a live session,
// through either channel the middleware accepts.
func alreadyAuthenticated(ctx *gin.Context) bool {
	tokenString, err := middleware.TokenFromRequest(ctx)

	if err != nil {
		return false
	}

	_, err = auth.VerifyJWT(tokenString)
	return err == nil
}

// RegisterUser creates an inactive account and emails an activation link.
// It never establishes a session; the account is unusable until activated.
func RegisterUser(ctx *gin.Context) {
	if alreadyAuthenticated(ctx) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You are already logged in."})
		return
	}

	var req RegisterUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", req.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Active:       false,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.IssueAccountToken(&newUser)

	if err != nil {
		log.Printf("Failed to issue activation token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := mailer.SendAccountActivation(&newUser, auth.EncodeUID(newUser.ID), token); err != nil {
		log.Printf("Failed to send activation email to %s: %v", newUser.Email, err)
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Your account has been registered successfully. Please check your email to activate it.",
	})
}

// ActivateUser confirms an emailed activation link. Every failure mode
// collapses into the same response so the link leaks nothing.
func ActivateUser(ctx *gin.Context) {
	userID, err := auth.DecodeUID(ctx.Param("uid"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The activation link is invalid."})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The activation link is invalid."})
		return
	}

	if !auth.CheckAccountToken(ctx.Param("token"), &user) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The activation link is invalid."})
		return
	}

	if err := db.DB.Model(&user).Update("active", true).Error; err != nil {
		log.Printf("Failed to activate user %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Congratulations! Your account has been activated."})
}

func LoginUser(ctx *gin.Context) {
	if alreadyAuthenticated(ctx) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "You are already logged in."})
		return
	}

	var req LoginUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", req.Email).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(req.Password))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if !existingUser.Active {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Your account is not active yet. Please check your email."})
		return
	}

	token, err := auth.GenerateJWT(existingUser.ID, existingUser.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "You have logged in successfully.",
		"user": types.UserResponse{
			ID:     existingUser.ID,
			Name:   existingUser.Name,
			Email:  existingUser.Email,
			Active: existingUser.Active,
		},
	})
}

func LogoutUser(ctx *gin.Context) {
	setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "You have been logged out."})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:     currentUser.ID,
			Name:   currentUser.Name,
			Email:  currentUser.Email,
			Active: true,
		},
	})
}

// ForgotPassword emails a reset link when the address is known. An unknown
// address is reported as such.
func ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := db.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "No account exists with this email."})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.IssueAccountToken(&user)

	if err != nil {
		log.Printf("Failed to issue reset token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := mailer.SendPasswordReset(&user, auth.EncodeUID(user.ID), token); err != nil {
		log.Printf("Failed to send reset email to %s: %v", user.Email, err)
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "A password reset link has been sent to your email."})
}

// ValidateResetPassword checks an emailed reset link and, when valid, opens
// the short-lived reset session that the final step requires.
func ValidateResetPassword(ctx *gin.Context) {
	userID, err := auth.DecodeUID(ctx.Param("uid"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This link has expired."})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This link has expired."})
		return
	}

	if !auth.CheckAccountToken(ctx.Param("token"), &user) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "This link has expired."})
		return
	}

	resetSession, err := auth.GenerateResetSession(user.ID)

	if err != nil {
		log.Printf("Failed to generate reset session: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setResetSessionCookie(ctx, resetSession, 60*15)

	ctx.JSON(http.StatusOK, gin.H{"message": "Please set your new password."})
}

// ResetPassword completes the reset flow. A mismatched confirmation leaves
// the account and the reset session untouched; a match also reactivates
// the account.
func ResetPassword(ctx *gin.Context) {
	resetSession, err := ctx.Cookie("reset_session")

	if err != nil || resetSession == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Your password reset session has expired."})
		return
	}

	userID, err := auth.VerifyResetSession(resetSession)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Your password reset session has expired."})
		return
	}

	var req ResetPasswordRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Password != req.ConfirmPassword {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The passwords do not match!"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Your password reset session has expired."})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"password_hash": string(passwordHash),
		"active":        true,
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to reset password for user %d: %v", user.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setResetSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Your password has been changed successfully. Please log in."})
}
