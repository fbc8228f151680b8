package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"educall-server/internal/core/session"
	"educall-server/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

// RequireRole 会话角色门禁。没有会话是 401（该去登录），
// 有会话但角色不符是 403 —— 两种失败必须可区分。
// requireRole 传空串表示只要求登录，不限角色。
func RequireRole(m *session.Manager, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.FromRequest(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "login required")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			response.AbortFail(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
