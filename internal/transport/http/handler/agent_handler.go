package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"educall-server/internal/core/session"
	"educall-server/internal/domain"
	"educall-server/internal/service"
	mdw "educall-server/internal/transport/http/middleware"
	"educall-server/internal/transport/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AgentHandler 坐席端：自己的线索、状态流转、按日期报表与导出
type AgentHandler struct {
	lifecycle *service.Lifecycle
	reporting *service.Reporting
	outreach  *service.Outreach
	sessions  *session.Manager
	log       *zap.Logger
}

func NewAgentHandler(lifecycle *service.Lifecycle, reporting *service.Reporting, outreach *service.Outreach, sessions *session.Manager, log *zap.Logger) *AgentHandler {
	return &AgentHandler{lifecycle: lifecycle, reporting: reporting, outreach: outreach, sessions: sessions, log: log}
}

func (h *AgentHandler) Mount(r *gin.Engine) {
	g := r.Group("", mdw.RequireRole(h.sessions, domain.RoleAgent))
	g.GET("/agent-dashboard", h.dashboard)
	g.POST("/agent-dashboard/update-lead-status", h.updateStatus)
	g.GET("/agent-dashboard/assigned-dates", h.assignedDates)
	g.GET("/agent-dashboard/leads-by-date", h.leadsByDate)
	g.GET("/agent-dashboard/export-interested-leads", h.exportInterested)
	g.POST("/ajax-send-lead-email/:lead_id", h.sendLeadEmail)
}

func (h *AgentHandler) dashboard(c *gin.Context) {
	leads, err := h.reporting.AgentLeads(c.GetString(mdw.KeyUserID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"leads": leads})
}

type updateStatusIn struct {
	LeadID string `json:"lead_id" form:"lead_id" binding:"required"`
	Status string `json:"status" form:"status" binding:"required"`
}

func (h *AgentHandler) updateStatus(c *gin.Context) {
	var in updateStatusIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.lifecycle.UpdateStatus(in.LeadID, in.Status, c.GetString(mdw.KeyUserID)); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"lead_id": in.LeadID, "status": in.Status})
}

func (h *AgentHandler) assignedDates(c *gin.Context) {
	dates, err := h.reporting.AssignedDates(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	response.OK(c, gin.H{"assigned_dates": dates})
}

func (h *AgentHandler) leadsByDate(c *gin.Context) {
	leads, err := h.reporting.LeadsByDate(c.GetString(mdw.KeyUserID), c.Query("date"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	response.OK(c, gin.H{"leads": leads})
}

func (h *AgentHandler) exportInterested(c *gin.Context) {
	date := c.Query("date")
	data, err := h.reporting.ExportInterested(c.GetString(mdw.KeyUserID), date)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filename := fmt.Sprintf("interested_leads_%s.xlsx", date)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

type sendLeadEmailIn struct {
	Message     string `json:"message" form:"message"`
	NoteToAdmin string `json:"note_to_admin" form:"note_to_admin"`
	OnlyNote    bool   `json:"only_note" form:"only_note"`
}

func (h *AgentHandler) sendLeadEmail(c *gin.Context) {
	var in sendLeadEmailIn
	if err := c.ShouldBind(&in); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	err := h.outreach.SendToLead(service.LeadMessageInput{
		LeadID:      c.Param("lead_id"),
		ActorID:     c.GetString(mdw.KeyUserID),
		Message:     in.Message,
		NoteToAdmin: in.NoteToAdmin,
		OnlyNote:    in.OnlyNote,
	})
	switch {
	case err == nil:
		response.OK(c, gin.H{})
	case errors.Is(err, service.ErrSendFailed):
		// 投递失败按结构化结果回，调用方照常计数
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotOwner):
		response.FromError(c, err)
	default:
		response.Fail(c, http.StatusBadRequest, err.Error())
	}
}
