package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ClientIPKey = "client_ip"

// ClientIPMiddleware resolve IP một lần, rate limit và request log đọc lại từ context.
// Thứ tự: X-Forwarded-For (hop đầu) > X-Real-IP > RemoteAddr
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIPKey, resolveClientIP(c.GetHeader("X-Forwarded-For"), c.GetHeader("X-Real-IP"), c.Request.RemoteAddr))
		c.Next()
	}
}

// GetClientIP trả IP do ClientIPMiddleware set, fallback gin resolver
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ClientIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func resolveClientIP(forwardedFor, realIP, remoteAddr string) string {
	if first, _, _ := strings.Cut(forwardedFor, ","); parseIP(first) != "" {
		return parseIP(first)
	}
	if ip := parseIP(realIP); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}
	if ip := parseIP(remoteAddr); ip != "" {
		return ip
	}
	return "127.0.0.1"
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
