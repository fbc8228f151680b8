package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"educall-server/internal/core/session"
	"educall-server/internal/domain"
	"educall-server/internal/repo"
	"educall-server/internal/service"
	mdw "educall-server/internal/transport/http/middleware"
	"educall-server/internal/transport/http/response"
)

// AdminHandler 管理端：建号、分配线索、录入、检索、群发
type AdminHandler struct {
	accounts  *service.Accounts
	lifecycle *service.Lifecycle
	importer  *service.Importer
	reporting *service.Reporting
	outreach  *service.Outreach
	uploads   *repo.UploadRepo
	sessions  *session.Manager
	log       *zap.Logger
}

func NewAdminHandler(
	accounts *service.Accounts,
	lifecycle *service.Lifecycle,
	importer *service.Importer,
	reporting *service.Reporting,
	outreach *service.Outreach,
	uploads *repo.UploadRepo,
	sessions *session.Manager,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		accounts: accounts, lifecycle: lifecycle, importer: importer,
		reporting: reporting, outreach: outreach, uploads: uploads,
		sessions: sessions, log: log,
	}
}

func (h *AdminHandler) Mount(r *gin.Engine) {
	g := r.Group("", mdw.RequireRole(h.sessions, domain.RoleAdmin))
	g.POST("/create-user", h.createUser)
	g.GET("/agents", h.listAgents)
	g.GET("/assign-leads/:agent_id", h.assignLeadsInfo)
	g.POST("/assign-leads/:agent_id", h.assignLeads)
	g.POST("/add-lead", h.addLead)
	g.GET("/global-search", h.globalSearch)
	g.POST("/admin/send-bulk-email", h.bulkEmail)
	g.POST("/admin/send-bulk-email-agent/:username", h.bulkEmailAgent)
}

type createUserIn struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role" binding:"required"`
	Email    string `json:"email" form:"email"`
}

func (h *AdminHandler) createUser(c *gin.Context) {
	var in createUserIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.accounts.CreateUser(in.Username, in.Password, in.Role, in.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.log.Info("user created",
		zap.String("username", u.Username),
		zap.String("role", u.Role),
		zap.String("by", c.GetString(mdw.KeyUserID)))
	response.OK(c, gin.H{"user": u})
}

func (h *AdminHandler) listAgents(c *gin.Context) {
	agents, err := h.accounts.ListAgents()
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"agents": agents})
}

// assignLeadsInfo 上传页信息：目标坐席 + 历史导入记录
func (h *AdminHandler) assignLeadsInfo(c *gin.Context) {
	agent, err := h.accounts.FindByID(c.Param("agent_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if agent == nil || agent.Role != domain.RoleAgent {
		response.Fail(c, http.StatusNotFound, "agent not found")
		return
	}
	files, err := h.uploads.ListByAgent(agent.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"agent": agent, "uploads": files})
}

// assignLeads multipart 上传，字段名 lead_file。
// 整批导入要么全部入库要么一行不落。
func (h *AdminHandler) assignLeads(c *gin.Context) {
	fh, err := c.FormFile("lead_file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "missing upload field lead_file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "cannot open upload: "+err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "cannot read upload: "+err.Error())
		return
	}

	count, err := h.importer.Import(data, fh.Filename, c.Param("agent_id"))
	if err != nil {
		// 解析/校验问题都算调用方输入错误
		switch err {
		case domain.ErrNotFound, domain.ErrNotAnAgent, domain.ErrUnsupportedFormat:
			response.FromError(c, err)
		default:
			response.Fail(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	h.log.Info("leads imported",
		zap.Int("count", count),
		zap.String("agent", c.Param("agent_id")),
		zap.String("file", fh.Filename))
	response.OK(c, gin.H{"imported": count})
}

type addLeadIn struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone" binding:"required"`
	City    string `json:"city" form:"city"`
	State   string `json:"state" form:"state"`
	Course  string `json:"course" form:"course"`
	Status  string `json:"status" form:"status"`
	AgentID string `json:"agent_id" form:"agent_id"`
}

func (h *AdminHandler) addLead(c *gin.Context) {
	var in addLeadIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := h.lifecycle.CreateLead(service.CreateLeadInput{
		Name: in.Name, Email: in.Email, Phone: in.Phone,
		City: in.City, State: in.State, Course: in.Course,
		Status: in.Status, AgentID: in.AgentID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"lead": lead})
}

func (h *AdminHandler) globalSearch(c *gin.Context) {
	res, err := h.reporting.Search(c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"agents": res.Agents, "leads": res.Leads})
}

type bulkMailIn struct {
	Subject string `json:"subject" form:"subject" binding:"required"`
	Body    string `json:"body" form:"body" binding:"required"`
}

func (h *AdminHandler) bulkEmail(c *gin.Context) {
	var in bulkMailIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.outreach.BulkToAll(in.Subject, in.Body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"sent": res.Sent, "failed": res.Failed, "skipped": res.Skipped})
}

func (h *AdminHandler) bulkEmailAgent(c *gin.Context) {
	var in bulkMailIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.outreach.BulkToAgent(c.Param("username"), in.Subject, in.Body)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"sent": res.Sent, "failed": res.Failed, "skipped": res.Skipped})
}
