// internal/interfaces/http/middleware/policy.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Capability is the access level a route demands.
type Capability int

const (
	// Public routes serve anonymous requests.
	Public Capability = iota
	// Authenticated routes require a resolved, active account.
	Authenticated
	// Admin routes additionally require the admin flag.
	Admin
)

// Rule binds one method and route template to a capability.
type Rule struct {
	Method     string
	Path       string
	Capability Capability
}

// Policy is a declarative access table keyed by method and the gin
// route template (c.FullPath()). Routes that are registered but not
// listed fall back to Authenticated, so forgetting a rule fails
// closed rather than open.
type Policy struct {
	rules map[string]Capability
}

// NewPolicy builds a policy from a rule table.
func NewPolicy(rules []Rule) *Policy {
	indexed := make(map[string]Capability, len(rules))
	for _, rule := range rules {
		indexed[rule.Method+" "+rule.Path] = rule.Capability
	}
	return &Policy{rules: indexed}
}

// CapabilityFor returns the capability required for a request.
func (p *Policy) CapabilityFor(method, path string) Capability {
	if capability, ok := p.rules[method+" "+path]; ok {
		return capability
	}
	return Authenticated
}

// Enforce checks the identity set by the Identity middleware against
// the policy table and rejects requests that fall short.
func (p *Policy) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		required := p.CapabilityFor(c.Request.Method, c.FullPath())
		if required == Public {
			c.Next()
			return
		}

		_, authenticated := GetUserIDFromContext(c)
		if !authenticated {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		if required == Admin && !IsAdminFromContext(c) {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}

		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, reason, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
		"error":     reason,
		"message":   message,
	})
}
