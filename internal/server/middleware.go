package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vendora/vendora/internal/authctx"
)

const (
	headerMachineSecret = "X-Machine-Secret"
	contextActorKey     = "actor"
)

// AuthRequired resolves the session cookie to an actor and stores it on
// both the gin context and the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextActorKey, actor)
		c.Request = c.Request.WithContext(authctx.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// RequireAccess enforces the RBAC policy for the actor resolved by
// AuthRequired. It must run after it.
func (s *Server) RequireAccess(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), actor.AccountType, object, action); err != nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// MachineSecretRequired guards the device endpoints with the shared
// provisioning secret.
func (s *Server) MachineSecretRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(s.cfg.MachineCheckinSecret)
		if secret == "" {
			AbortWithError(c, ErrNotFound)
			return
		}

		got := strings.TrimSpace(c.GetHeader(headerMachineSecret))
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// CheckoutRateLimited throttles storefront checkout per machine id.
func (s *Server) CheckoutRateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		machineID := strings.TrimSpace(c.Query("machine_id"))
		if machineID == "" {
			machineID = c.ClientIP()
		}

		decision, err := s.limiter.AllowCheckout(c.Request.Context(), machineID)
		if err != nil {
			// Redis being down should not take checkout with it.
			c.Next()
			return
		}
		if !decision.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "storefront_checkout")
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) (authctx.Actor, bool) {
	value, exists := c.Get(contextActorKey)
	if !exists {
		return authctx.Actor{}, false
	}
	actor, ok := value.(authctx.Actor)
	return actor, ok
}
