package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const (
	IPAddressContextKey = "ip_address"
	UserAgentContextKey = "user_agent"
)

// RequestInfo stashes client attribution on the request context for the
// audit trail.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(IPAddressContextKey, c.IP())
		c.Locals(UserAgentContextKey, c.Get("User-Agent"))
		return c.Next()
	}
}

func GetIPAddress(c *fiber.Ctx) *string {
	if ip, ok := c.Locals(IPAddressContextKey).(string); ok && ip != "" {
		return &ip
	}
	return nil
}

func GetUserAgent(c *fiber.Ctx) *string {
	if ua, ok := c.Locals(UserAgentContextKey).(string); ok && ua != "" {
		return &ua
	}
	return nil
}
