// Package session issues and resolves the signed, tamper-evident session
// tokens that bind a browser to a user identity. State lives entirely in
// the client-side cookie, there is no server-side session store.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session_token"

// Identity is what a valid session token resolves to.
type Identity struct {
	UserID   uint
	Username string
}

// Issue signs a new session token bound to the given identity.
func Issue(id Identity) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id, %w", err)
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id.UserID,
		"username": id.Username,
		"jti":      jti,
		"iat":      now.Unix(),
		"exp":      now.Add(viper.GetDuration("session.max_age")).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("session.secret")))
}

// Resolve validates a token's signature and expiry and returns the bound
// identity. Failures of any kind report ok == false, never an error.
func Resolve(tokenStr string) (Identity, bool) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("session.secret")), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID < 1 {
		return Identity{}, false
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return Identity{}, false
	}

	return Identity{UserID: uint(userID), Username: username}, true
}

// Set writes the session cookie. Secure, HttpOnly and SameSite=Lax are
// deliberate and not configurable.
func Set(c *gin.Context, token string) {
	maxAge := int(viper.GetDuration("session.max_age").Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", true, true)
}

// Clear expires the session cookie. Safe to call without an active
// session.
func Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", true, true)
}
