package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"trivia-service/internal/auth"
)

const (
	identityKey       = "identity"
	attestationHeader = "X-Firebase-AppCheck"
)

// IdentityVerifier checks bearer identity tokens.
type IdentityVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AttestationVerifier checks app attestation tokens.
type AttestationVerifier interface {
	Verify(token string) (string, error)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("panic recovered")
		c.String(http.StatusInternalServerError, "internal server error")
		c.Abort()
	})
}

func requireIdentity(verifier IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.String(http.StatusUnauthorized, "Missing auth token")
			c.Abort()
			return
		}
		identity, err := verifier.Verify(token)
		if err != nil {
			c.String(http.StatusUnauthorized, "Invalid auth token")
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// requireAttestation verifies the attestation header when present. With enforce,
// a missing header is rejected too.
func requireAttestation(verifier AttestationVerifier, enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(attestationHeader)
		if token == "" {
			if enforce {
				c.String(http.StatusUnauthorized, "Unauthorized: Missing App Check token")
				c.Abort()
				return
			}
			c.Next()
			return
		}
		if _, err := verifier.Verify(token); err != nil {
			c.String(http.StatusUnauthorized, "Unauthorized: Invalid App Check token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityOf(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}
