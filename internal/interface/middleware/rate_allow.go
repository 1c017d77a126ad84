package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowLoopback bypasses the limiter for requests originating on the host
// itself, such as container health checks.
func AllowLoopback() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && ip.IsLoopback()
	}
}
