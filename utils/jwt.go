package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeUser     = "user"
	TokenTypeCustomer = "customer"

	issuer = "RestaurantWebApp"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// CustomClaims identifies either a staff user or a customer.
type CustomClaims struct {
	UserID       uint   `json:"user_id,omitempty"`
	CustomerID   uint   `json:"customer_id,omitempty"`
	Role         string `json:"role,omitempty"`
	RestaurantID *uint  `json:"restaurant_id,omitempty"`
	Type         string `json:"type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies bearer credentials.
type TokenIssuer struct {
	secret      []byte
	userTTL     time.Duration
	customerTTL time.Duration
	now         func() time.Time
}

func NewTokenIssuer(secret string, userTTL, customerTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:      []byte(secret),
		userTTL:     userTTL,
		customerTTL: customerTTL,
		now:         time.Now,
	}
}

// GenerateUserToken issues a staff credential.
func (ti *TokenIssuer) GenerateUserToken(userID uint, role string, restaurantID *uint) (string, error) {
	return ti.sign(&CustomClaims{
		UserID:       userID,
		Role:         role,
		RestaurantID: restaurantID,
		Type:         TokenTypeUser,
	}, ti.userTTL)
}

// GenerateCustomerToken issues a credential scoped to the customer type.
func (ti *TokenIssuer) GenerateCustomerToken(customerID uint) (string, error) {
	return ti.sign(&CustomClaims{
		CustomerID: customerID,
		Role:       "customer",
		Type:       TokenTypeCustomer,
	}, ti.customerTTL)
}

func (ti *TokenIssuer) sign(claims *CustomClaims, ttl time.Duration) (string, error) {
	now := ti.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// ParseToken validates the signature and expiry of tokenString.
func (ti *TokenIssuer) ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
