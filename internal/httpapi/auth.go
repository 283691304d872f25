package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims this service understands. Token
// issuance belongs to the external login service; we only validate.
type Claims struct {
	Usuario string `json:"usuario"`
	jwt.RegisteredClaims
}

// JWTValidator checks bearer tokens signed by the login service.
type JWTValidator struct {
	signingKey []byte
	issuer     string
}

func NewJWTValidator(signingKey, issuer string) *JWTValidator {
	return &JWTValidator{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if strings.TrimSpace(claims.Usuario) == "" {
		return nil, fmt.Errorf("token carries no usuario")
	}
	return claims, nil
}

// SignToken builds a short-lived token with this validator's key. Meant
// for dev runs and tests; production tokens come from the login service.
func (v *JWTValidator) SignToken(usuario string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Usuario: usuario,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    v.issuer,
		},
	})
	return token.SignedString(v.signingKey)
}

type contextKey string

const usuarioKey contextKey = "usuario"

// UsuarioFrom returns the authenticated user stored by the auth
// middleware, or "" when the request was not authenticated.
func UsuarioFrom(ctx context.Context) string {
	if u, ok := ctx.Value(usuarioKey).(string); ok {
		return u
	}
	return ""
}

// RequireAuth wraps a handler with bearer-token validation and puts the
// usuario into the request context.
func (v *JWTValidator) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, Fail("missing bearer token"))
			return
		}
		claims, err := v.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
			return
		}
		ctx := context.WithValue(r.Context(), usuarioKey, claims.Usuario)
		next(w, r.WithContext(ctx))
	}
}
