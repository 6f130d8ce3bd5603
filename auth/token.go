package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/tutoria-go/apperror"
)

const tokenIssuer = "tutoria"

// Claims is the payload of a session token: the user's identity plus the
// standard registered claims (exp, iat, nbf).
type Claims struct {
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for the given user. Tokens are
// stateless: validity is the signature plus the expiry claim, nothing more.
func IssueToken(user *User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and validates a session token string. It rejects
// malformed tokens, wrong signing algorithms, bad signatures, and expired
// tokens, always with the same low-detail AuthError.
func VerifyToken(tokenString string, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, apperror.NewAuthError("Invalid or expired token", err)
	}
	if !token.Valid {
		return nil, apperror.NewAuthError("Invalid or expired token", nil)
	}
	if claims.UserID == 0 {
		return nil, apperror.NewAuthError("Invalid token: user_id claim is missing", nil)
	}
	return claims, nil
}
