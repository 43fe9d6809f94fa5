package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/researchdesk/researchdesk/internal/models"
)

// Account tokens back the emailed activation and password-reset links.
// Each token is bound to a fingerprint of the user's mutable account state,
// so activating the account or changing the password invalidates every
// token issued before that change.

const (
	accountTokenTTL = 72 * time.Hour
	resetSessionTTL = 15 * time.Minute
)

func stateFingerprint(user *models.User) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%t:%s", user.ID, user.Active, user.PasswordHash)))
	return hex.EncodeToString(sum[:])
}

func IssueAccountToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"fp":      stateFingerprint(user),
		"exp":     time.Now().Add(accountTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// CheckAccountToken reports whether tokenString is a live account token for
// the given user in their current state.
func CheckAccountToken(tokenString string, user *models.User) bool {
	token, err := VerifyJWT(tokenString)

	if err != nil {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return false
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok || uint(userIDFloat) != user.ID {
		return false
	}

	fingerprint, ok := claims["fp"].(string)

	return ok && fingerprint == stateFingerprint(user)
}

// GenerateResetSession produces the short-lived continuation token that
// carries the validated user reference between the two reset-password steps.
func GenerateResetSession(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"purpose": "password_reset",
		"exp":     time.Now().Add(resetSessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyResetSession(tokenString string) (uint, error) {
	token, err := VerifyJWT(tokenString)

	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return 0, fmt.Errorf("Invalid token claims")
	}

	if purpose, ok := claims["purpose"].(string); !ok || purpose != "password_reset" {
		return 0, fmt.Errorf("Not a password reset token")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return 0, fmt.Errorf("Invalid user ID in token claims")
	}

	return uint(userIDFloat), nil
}

// EncodeUID renders a user id as the opaque reference embedded in email links.
func EncodeUID(userID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(userID), 10)))
}

func DecodeUID(encoded string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)

	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(string(raw), 10, 64)

	if err != nil {
		return 0, err
	}

	return uint(userID), nil
}
