package helper

import (
	"bus_portal/config"
	"bus_portal/model"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessTokenTTL  = 60 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

func JwtSecret() []byte {
	return []byte(config.ConfigDefault("JWT_SECRET", "bus-portal-dev-secret"))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func generateToken(claim model.TokenClaim, kind string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": claim.UserId,
		"email":  claim.Email,
		"role":   claim.Role,
		"type":   kind,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	if claim.VendorId != nil {
		claims["vendorId"] = *claim.VendorId
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret())
}

func GenerateAccessToken(claim model.TokenClaim) (string, error) {
	return generateToken(claim, "access", AccessTokenTTL)
}

func GenerateRefreshToken(claim model.TokenClaim) (string, error) {
	return generateToken(claim, "refresh", RefreshTokenTTL)
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret(), nil
	})
}

// ClaimFromToken extracts the session claim and checks the token kind.
func ClaimFromToken(token *jwt.Token, kind string) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token claims")
	}
	if t, _ := claims["type"].(string); t != kind {
		return model.TokenClaim{}, fmt.Errorf("expected %s token", kind)
	}
	userId, ok := claims["userId"].(float64)
	if !ok || userId <= 0 {
		return model.TokenClaim{}, errors.New("invalid userId in payload")
	}
	claim := model.TokenClaim{UserId: uint(userId)}
	claim.Email, _ = claims["email"].(string)
	claim.Role, _ = claims["role"].(string)
	if v, ok := claims["vendorId"].(float64); ok && v > 0 {
		vendorId := uint(v)
		claim.VendorId = &vendorId
	}
	return claim, nil
}

// GetClaim returns the claim stored by middleware.Protected.
func GetClaim(c *fiber.Ctx) (model.TokenClaim, bool) {
	claim, ok := c.Locals("claim").(model.TokenClaim)
	return claim, ok && claim.UserId > 0
}

func SetSessionCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	secure := config.Config("COOKIE_SECURE") == "true"
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   secure,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   secure,
		Path:     "/",
	})
}

func ClearSessionCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Path:     "/",
		})
	}
}
