// Package response 统一 JSON 出口：{"success": bool, ...}，
// 失败带 error 字符串和真实 HTTP 状态码。
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"educall-server/internal/domain"
	"educall-server/internal/service"
)

// OK 成功响应，附加字段平铺进顶层
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// FromError 领域哨兵错误 → HTTP 状态码。未识别的错误一律 500，
// 细节进日志不进响应体。
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrDuplicateUsername):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrNotAnAgent),
		errors.Is(err, service.ErrPasswordMismatch):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Fail(c, http.StatusUnauthorized, err.Error())
	default:
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, "internal error")
	}
}
