package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"educall-server/internal/core/session"
	"educall-server/internal/domain"
	"educall-server/internal/service"
	mdw "educall-server/internal/transport/http/middleware"
	"educall-server/internal/transport/http/response"
)

// AuthHandler 注册 / 登录 / 退出，以及按角色分流的首页
type AuthHandler struct {
	accounts  *service.Accounts
	reporting *service.Reporting
	sessions  *session.Manager
	log       *zap.Logger
}

func NewAuthHandler(accounts *service.Accounts, reporting *service.Reporting, sessions *session.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, reporting: reporting, sessions: sessions, log: log}
}

func (h *AuthHandler) Mount(r *gin.Engine) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	me := r.Group("", mdw.RequireRole(h.sessions, ""))
	me.GET("/", h.index)
}

type registerIn struct {
	Username        string `json:"username" form:"username" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
}

// register 公开注册入口，一律建成 agent
func (h *AuthHandler) register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.accounts.Register(in.Username, in.Password, in.ConfirmPassword)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.log.Info("agent registered", zap.String("username", u.Username))
	response.OK(c, gin.H{"user": u})
}

type loginIn struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.accounts.Authenticate(in.Username, in.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	token, err := h.sessions.Issue(u.ID, u.Role)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.sessions.SetCookie(c, token)
	response.OK(c, gin.H{"user": u})
}

func (h *AuthHandler) logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	response.OK(c, gin.H{})
}

// index 管理员看按坐席汇总，坐席看自己的线索
func (h *AuthHandler) index(c *gin.Context) {
	if c.GetString(mdw.KeyRole) == domain.RoleAdmin {
		summary, err := h.reporting.AdminSummary()
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, gin.H{"leads_by_agent": summary})
		return
	}
	leads, err := h.reporting.AgentLeads(c.GetString(mdw.KeyUserID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"leads": leads})
}
