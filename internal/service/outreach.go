// 对外邮件：坐席给线索发消息、管理员群发。
// 单个收件人失败不打断整批，按 sent/failed 计数返回。
package service

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"educall-server/internal/domain"
	"educall-server/internal/mail"
	"educall-server/internal/repo"
)

// ErrSendFailed 投递失败：不是调用方的错，按结构化结果上报而不是崩请求
var ErrSendFailed = errors.New("mail delivery failed")

type Outreach struct {
	db     *gorm.DB
	sender mail.Sender
	log    *zap.Logger
}

func NewOutreach(db *gorm.DB, sender mail.Sender, log *zap.Logger) *Outreach {
	return &Outreach{db: db, sender: sender, log: log}
}

type LeadMessageInput struct {
	LeadID      string
	ActorID     string
	Message     string
	NoteToAdmin string
	OnlyNote    bool
}

// SendToLead 坐席向自己的线索发邮件，可顺带存一条给管理员的备注。
// OnlyNote 为 true 时只存备注不发信。
func (s *Outreach) SendToLead(in LeadMessageInput) error {
	leads := repo.NewLeadRepo(s.db)
	lead, err := leads.FindByID(in.LeadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return domain.ErrNotFound
	}
	if !lead.OwnedBy(in.ActorID) {
		return domain.ErrNotOwner
	}

	if note := strings.TrimSpace(in.NoteToAdmin); note != "" {
		if err := leads.UpdateNote(lead.ID, note); err != nil {
			return err
		}
	}
	if in.OnlyNote {
		return nil
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return fmt.Errorf("message is empty")
	}
	if !mail.ValidAddress(lead.Email) {
		return fmt.Errorf("lead has no valid email address")
	}
	if err := s.sender.Send(lead.Email, "Message from your EduCall Agent", msg); err != nil {
		s.log.Warn("lead mail failed", zap.String("to", lead.Email), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

type BulkResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"` // 地址语法不合格，发送前就过滤掉
}

// BulkToAll 给所有留了邮箱的线索群发
func (s *Outreach) BulkToAll(subject, body string) (*BulkResult, error) {
	leads, err := repo.NewLeadRepo(s.db).ListWithEmail("")
	if err != nil {
		return nil, err
	}
	return s.fanout(leads, subject, body), nil
}

// BulkToAgent 只发给指定坐席（按用户名）名下的线索
func (s *Outreach) BulkToAgent(username, subject, body string) (*BulkResult, error) {
	agent, err := repo.NewUserRepo(s.db).FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if agent == nil || agent.Role != domain.RoleAgent {
		return nil, domain.ErrNotFound
	}
	leads, err := repo.NewLeadRepo(s.db).ListWithEmail(agent.ID)
	if err != nil {
		return nil, err
	}
	return s.fanout(leads, subject, body), nil
}

func (s *Outreach) fanout(leads []domain.Lead, subject, body string) *BulkResult {
	res := &BulkResult{}
	for _, l := range leads {
		if !mail.ValidAddress(l.Email) {
			res.Skipped++
			continue
		}
		if err := s.sender.Send(l.Email, subject, body); err != nil {
			res.Failed++
			s.log.Warn("bulk mail failed", zap.String("to", l.Email), zap.Error(err))
			continue
		}
		res.Sent++
	}
	return res
}
