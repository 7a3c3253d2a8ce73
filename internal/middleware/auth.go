package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/database"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/objectid"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/response"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/token"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const (
	PrincipalContextKey = "principal"
	DefaultCookieName   = "accessToken"
)

// TokenVerifier verifies a raw access token
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// PrincipalStore resolves the principal named by a verified token. It must
// not load the password hash or refresh token.
type PrincipalStore interface {
	FindPrincipalByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator guards protected routes
type Authenticator struct {
	verifier   TokenVerifier
	store      PrincipalStore
	cookieName string
	logger     *logging.Logger
}

// NewAuthenticator creates an Authenticator. An empty cookieName falls back
// to DefaultCookieName.
func NewAuthenticator(verifier TokenVerifier, store PrincipalStore, cookieName string, logger *logging.Logger) *Authenticator {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Authenticator{
		verifier:   verifier,
		store:      store,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RequireAuth resolves the caller and attaches it to the context, or aborts
// with a 401 (500 when the principal lookup itself fails).
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.authenticate(c)
		if err != nil {
			appErr := apperr.From(err)
			metrics.RecordAuthFailure(appErr.Kind.String())
			a.logger.WithError(err).
				WithField("path", c.Request.URL.Path).
				Debug("authentication failed")
			response.Error(c, appErr)
			return
		}

		SetPrincipal(c, user)
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*models.User, error) {
	raw := a.extractToken(c)
	if raw == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "Unauthorized request")
	}

	claims, err := a.verifier.Verify(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidToken, "Invalid access token", err)
	}

	if !objectid.IsValid(claims.UserID) {
		return nil, apperr.New(apperr.KindInvalidToken, "Invalid access token")
	}

	user, err := a.store.FindPrincipalByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindPrincipalNotFound, "Invalid access token", err)
		}
		return nil, apperr.Store("Internal server error", err)
	}

	return user, nil
}

// extractToken prefers the cookie and falls back to the Authorization header
func (a *Authenticator) extractToken(c *gin.Context) string {
	if raw, err := c.Cookie(a.cookieName); err == nil && raw != "" {
		return raw
	}
	return strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
}

// SetPrincipal attaches the authenticated user to the context
func SetPrincipal(c *gin.Context, user *models.User) {
	c.Set(PrincipalContextKey, user)
}

// GetPrincipal retrieves the authenticated user from the context
func GetPrincipal(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok && user != nil
}
