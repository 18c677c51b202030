package middlewares

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Luismorlan/yatube/model"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// TokenCookie holds the session jwt issued on login.
	TokenCookie = "token"
	// CurrentUserKey is the gin context key of the authenticated *model.User.
	CurrentUserKey = "current_user"

	DefaultTokenTTL = 14 * 24 * time.Hour
)

// UserLoader resolves the subject of a verified token.
type UserLoader interface {
	UserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Authenticator issues and verifies HS256 session tokens whose subject is
// the username.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	users  UserLoader
	now    func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration, users UserLoader) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, users: users, now: time.Now}
}

func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// IssueToken returns a signed token for username.
func (a *Authenticator) IssueToken(username string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ParseToken verifies signature and expiry and returns the username.
func (a *Authenticator) ParseToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token without subject")
	}
	return claims.Subject, nil
}

// tokenFromRequest looks for the session token in the cookie, the "token"
// query parameter and the Authorization header, in that order.
func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Session resolves the requesting user, if any, and stores it under
// CurrentUserKey. Pages are public, so a missing or invalid token only means
// the request is anonymous.
func Session(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}

		username, err := a.ParseToken(token)
		if err != nil {
			Log.WithField("path", c.Request.URL.Path).Debug("ignore invalid session token: ", err)
			c.Next()
			return
		}
		user, err := a.users.UserByUsername(c.Request.Context(), username)
		if err != nil {
			Log.WithField("username", username).Info("session token of unknown user: ", err)
			c.Next()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// LoginURL returns the login page url that sends the user back to next once
// logged in.
func LoginURL(loginPath string, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return loginPath + "?next=" + escaped
}

// LoginRequired redirects anonymous requests to loginPath, preserving the
// original url in the "next" query parameter.
func LoginRequired(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL(loginPath, c.Request.URL.RequestURI()))
		c.Abort()
	}
}
