package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// AuthHandler gates the mutation endpoints. Full login flows live in the
// console's own auth service; this service only verifies the token it minted.
type AuthHandler interface {
	Middleware(next http.HandlerFunc) http.HandlerFunc
}

// MockAuth passes everything through, for local development and tests.
type MockAuth struct{}

func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
	}
}

// JwtAuth verifies an HMAC signed bearer token.
type JwtAuth struct {
	secret []byte
}

func NewJwtAuth(secret string) *JwtAuth {
	return &JwtAuth{secret: []byte(secret)}
}

func (a *JwtAuth) parse(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
}

func (a *JwtAuth) tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

func (a *JwtAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := a.tokenFromRequest(r)
		if tokenString == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		token, err := a.parse(tokenString)
		if err != nil || !token.Valid {
			log.Printf("Rejected token: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
