package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialcore/internal/core/account"
)

const (
	CookieName = "remember_token"
	ContextKey = "userID"
	issuer     = "socialcore"
)

// SaltAuthenticator resolves a session's account id and salt to an account.
type SaltAuthenticator interface {
	AuthenticateWithSalt(ctx context.Context, id, salt string) (*account.Account, error)
}

// SessionClaims is a signed remember-me session. The salt is a bearer secret
// scoped to one account; it stops matching when the account is destroyed.
type SessionClaims struct {
	Salt string `json:"salt"`
	jwt.StandardClaims
}

type Sessions struct {
	Key          []byte
	TTL          time.Duration
	SecureCookie bool
	Logger       *zap.Logger
}

func NewSessions(key []byte, ttl time.Duration, secureCookie bool, logger *zap.Logger) *Sessions {
	return &Sessions{Key: key, TTL: ttl, SecureCookie: secureCookie, Logger: logger}
}

// Issue signs a session for acc.
func (s *Sessions) Issue(acc *account.Account) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.TTL)
	claims := &SessionClaims{
		Salt: acc.Salt,
		StandardClaims: jwt.StandardClaims{
			Subject:   acc.ID.String(),
			Issuer:    issuer,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *Sessions) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Key, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

func (s *Sessions) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.TTL.Seconds()), "/", "", s.SecureCookie, true)
}

func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.SecureCookie, true)
}

// Authenticate reads the session from the Authorization header or the
// remember-me cookie and re-authenticates it against the account's salt.
func (s *Sessions) Authenticate(auth SaltAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}

		claims, err := s.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		acc, err := auth.AuthenticateWithSalt(c.Request.Context(), claims.Subject, claims.Salt)
		if errors.Is(err, account.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		if err != nil {
			s.Logger.Error("Session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not verify session"})
			return
		}

		c.Set(ContextKey, acc.ID.String())
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}
