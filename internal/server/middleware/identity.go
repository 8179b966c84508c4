package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

// ownerKey is the gin context key holding the resolved owner id.
const ownerKey = "owner_id"

// IdentityProvider resolves the caller of a request.
type IdentityProvider interface {
	Identify(r *http.Request) (ownerID string, ok bool)
}

// HeaderIdentity trusts a header set by an upstream auth gateway.
type HeaderIdentity struct {
	Header string
}

func (h HeaderIdentity) Identify(r *http.Request) (string, bool) {
	owner := strings.TrimSpace(r.Header.Get(h.Header))
	return owner, owner != ""
}

// TokenIdentity maps bearer tokens to owners.
type TokenIdentity struct {
	Tokens map[string]string
}

func (t TokenIdentity) Identify(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	owner, ok := t.Tokens[strings.TrimSpace(token)]
	return owner, ok && owner != ""
}

// ProviderFrom builds the provider selected by cfg.Mode.
func ProviderFrom(cfg common.AuthConfig) IdentityProvider {
	if cfg.Mode == "token" {
		return TokenIdentity{Tokens: cfg.Tokens}
	}
	return HeaderIdentity{Header: cfg.Header}
}

// Identity redirects anonymous callers to landingPath and stores the owner
// id for everyone else.
func Identity(provider IdentityProvider, landingPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := provider.Identify(c.Request)
		if !ok {
			c.Redirect(http.StatusSeeOther, landingPath)
			c.Abort()
			return
		}
		c.Set(ownerKey, owner)
		c.Request = c.Request.WithContext(common.WithOwnerID(c.Request.Context(), owner))
		c.Next()
	}
}

// OwnerFromContext returns the owner stored by Identity.
func OwnerFromContext(c *gin.Context) (string, bool) {
	owner := c.GetString(ownerKey)
	return owner, owner != ""
}
