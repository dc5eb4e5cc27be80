// Package api implements the Naudiz REST API using chi.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Auth modes. In "jwt" mode requests must carry a Bearer token signed by
// the external identity provider; the subject claim is the owner id. In
// "disabled" mode the owner id is taken verbatim from the X-Naudiz-Owner
// header, which is only suitable for local development.
const (
	AuthModeDisabled = "disabled"
	AuthModeJWT      = "jwt"
)

type ctxKey int

const ownerKey ctxKey = iota

// OwnerID returns the authenticated owner id stored by OwnerMiddleware,
// or the empty string outside the middleware.
func OwnerID(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}

// OwnerMiddleware resolves the authenticated owner identity for every
// request. The engine itself never authenticates; it only needs an opaque
// owner id to authorize by equality.
func OwnerMiddleware(mode, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var owner string
			switch mode {
			case AuthModeJWT:
				token := bearerToken(r)
				if token == "" {
					writeJSON(w, http.StatusUnauthorized, errorBody("missing bearer token"))
					return
				}
				sub, err := tokenSubject(token, secret)
				if err != nil {
					writeJSON(w, http.StatusUnauthorized, errorBody("invalid token"))
					return
				}
				owner = sub
			default:
				owner = r.Header.Get("X-Naudiz-Owner")
				if owner == "" {
					writeJSON(w, http.StatusUnauthorized, errorBody("missing owner header"))
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, owner)))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// tokenSubject validates an HS256 token and returns its subject claim.
func tokenSubject(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}
