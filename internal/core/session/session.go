// Package session 基于 HS256 签名 token 的 cookie 会话。
// 会话不落库：token 自带 uid+role，退出登录即清 cookie。
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session")

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // "admin" or "agent"
	jwt.RegisteredClaims
}

type Manager struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration
	CookieName string
}

func NewManager(secret, issuer, cookieName string, ttl time.Duration) *Manager {
	if cookieName == "" {
		cookieName = "educall_session"
	}
	return &Manager{Secret: []byte(secret), Issuer: issuer, TTL: ttl, CookieName: cookieName}
}

func (m *Manager) Issue(uid, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return m.Secret, nil
	}, jwt.WithIssuer(m.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, ErrInvalidSession
}

// SetCookie 下发会话 cookie（HttpOnly，生命周期与 token 一致）
func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.CookieName, token, int(m.TTL.Seconds()), "/", "", false, true)
}

// ClearCookie 退出登录
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetCookie(m.CookieName, "", -1, "/", "", false, true)
}

// FromRequest 从 cookie 取会话；没有或无效都返回 ErrInvalidSession
func (m *Manager) FromRequest(c *gin.Context) (*Claims, error) {
	raw, err := c.Cookie(m.CookieName)
	if err != nil || raw == "" {
		return nil, ErrInvalidSession
	}
	claims, err := m.Parse(raw)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
