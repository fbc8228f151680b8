// 线索生命周期引擎：创建、分配、状态流转与完成通知。
// 分配的瞬间打 assigned_at，之后永不改写；状态修改只认归属坐席。
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"educall-server/internal/cachekey"
	"educall-server/internal/core/cache"
	"educall-server/internal/domain"
	"educall-server/internal/mail"
	"educall-server/internal/repo"
	"educall-server/pkg/utils"
)

type Lifecycle struct {
	db     *gorm.DB
	notify mail.Sender
	cache  *cache.Cache
	log    *zap.Logger
}

func NewLifecycle(db *gorm.DB, notify mail.Sender, c *cache.Cache, log *zap.Logger) *Lifecycle {
	return &Lifecycle{db: db, notify: notify, cache: c, log: log}
}

type CreateLeadInput struct {
	Name    string
	Email   string
	Phone   string
	City    string
	State   string
	Course  string
	Status  string
	AgentID string // 可空：空则创建为未分配
}

// CreateLead 管理端单条录入。指定坐席时立即转入已分配态并打 assigned_at，
// 与批量导入路径保持一致。
func (s *Lifecycle) CreateLead(in CreateLeadInput) (*domain.Lead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return nil, fmt.Errorf("name and phone are required")
	}

	lead := &domain.Lead{
		ID:     utils.NewID(),
		Name:   in.Name,
		Email:  strings.TrimSpace(in.Email),
		Phone:  in.Phone,
		City:   strings.TrimSpace(in.City),
		State:  strings.TrimSpace(in.State),
		Course: strings.TrimSpace(in.Course),
		Status: domain.StatusPending,
	}
	if st, ok := domain.ParseStatus(in.Status); ok {
		lead.Status = st
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.AgentID != "" {
			agent, e := repo.NewUserRepo(tx).FindByID(in.AgentID)
			if e != nil {
				return e
			}
			if agent == nil {
				return domain.ErrNotFound
			}
			if agent.Role != domain.RoleAgent {
				return domain.ErrNotAnAgent
			}
			now := time.Now()
			lead.AgentID = &agent.ID
			lead.AssignedAt = &now
		}
		return repo.NewLeadRepo(tx).Create(lead)
	})
	if err != nil {
		return nil, err
	}
	if in.AgentID != "" {
		s.cache.Invalidate(context.Background(), cachekey.AssignedDates(in.AgentID))
	}
	return lead, nil
}

// UpdateStatus 状态流转。NotFound 与 NotOwner 分开上报；
// 提交后对该线索的分配日期重算完成判定。
func (s *Lifecycle) UpdateStatus(leadID, rawStatus, actorID string) error {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return domain.ErrInvalidStatus
	}

	var updated *domain.Lead
	err := s.db.Transaction(func(tx *gorm.DB) error {
		leads := repo.NewLeadRepo(tx)
		lead, e := leads.FindByID(leadID)
		if e != nil {
			return e
		}
		if lead == nil {
			return domain.ErrNotFound
		}
		if !lead.OwnedBy(actorID) {
			return domain.ErrNotOwner
		}
		if e := leads.UpdateStatus(lead.ID, status); e != nil {
			return e
		}
		lead.Status = status
		updated = lead
		return nil
	})
	if err != nil {
		return err
	}

	// 通知在事务外发：慢 SMTP 不应回滚已提交的状态
	if updated.AssignedAt != nil {
		s.checkCompletion(actorID, *updated.AssignedAt)
	}
	return nil
}

func (s *Lifecycle) AttachNote(leadID, note, actorID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		leads := repo.NewLeadRepo(tx)
		lead, e := leads.FindByID(leadID)
		if e != nil {
			return e
		}
		if lead == nil {
			return domain.ErrNotFound
		}
		if !lead.OwnedBy(actorID) {
			return domain.ErrNotOwner
		}
		return leads.UpdateNote(lead.ID, note)
	})
}

// EvaluateCompletion 该坐席在 day 当天分配的线索全部脱离 Pending 才算完成。
// 每次状态更新都重算，不维护计数器。
func (s *Lifecycle) EvaluateCompletion(agentID string, day time.Time) (bool, error) {
	leads := repo.NewLeadRepo(s.db)
	total, err := leads.CountOn(agentID, day)
	if err != nil {
		return false, err
	}
	if total == 0 {
		return false, nil
	}
	pending, err := leads.PendingCountOn(agentID, day)
	if err != nil {
		return false, err
	}
	return pending == 0, nil
}

func (s *Lifecycle) checkCompletion(agentID string, day time.Time) {
	done, err := s.EvaluateCompletion(agentID, day)
	if err != nil {
		s.log.Error("completion check failed", zap.String("agent", agentID), zap.Error(err))
		return
	}
	if !done {
		return
	}

	agent, err := repo.NewUserRepo(s.db).FindByID(agentID)
	if err != nil || agent == nil {
		s.log.Error("completion notify: agent lookup failed", zap.String("agent", agentID), zap.Error(err))
		return
	}
	admins, err := repo.NewUserRepo(s.db).ListByRole(domain.RoleAdmin)
	if err != nil {
		s.log.Error("completion notify: admin lookup failed", zap.Error(err))
		return
	}

	date := day.Format("2006-01-02")
	subject := fmt.Sprintf("Agent %s completed all leads for %s", agent.Username, date)
	body := fmt.Sprintf("Agent %s has updated every lead assigned on %s. No pending leads remain.", agent.Username, date)
	for _, admin := range admins {
		if !mail.ValidAddress(admin.Email) {
			continue
		}
		if err := s.notify.Send(admin.Email, subject, body); err != nil {
			// 通知失败只记日志，状态更新本身已经提交
			s.log.Error("completion notify failed", zap.String("to", admin.Email), zap.Error(err))
			continue
		}
		s.log.Info("completion notified",
			zap.String("agent", agent.Username), zap.String("date", date), zap.String("to", admin.Email))
	}
}
