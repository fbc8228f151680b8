package domain

import "time"

// Lead 一条潜在客户记录。AgentID 为空表示尚未分配；
// AssignedAt 在 AgentID 首次写入时打点，之后不再变化，
// 是按日期聚合报表的分组键。
type Lead struct {
	ID          string     `gorm:"primaryKey;size:32" json:"id"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	Email       string     `gorm:"size:120" json:"email,omitempty"`
	Phone       string     `gorm:"size:20;not null" json:"phone"`
	City        string     `gorm:"size:100" json:"city,omitempty"`
	State       string     `gorm:"size:100" json:"state,omitempty"`
	Course      string     `gorm:"size:100" json:"course,omitempty"`
	Status      Status     `gorm:"size:50" json:"status"`
	NoteToAdmin string     `gorm:"type:text" json:"note_to_admin,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedAt  *time.Time `gorm:"index" json:"assigned_at,omitempty"`
	AgentID     *string    `gorm:"size:32;index" json:"agent_id,omitempty"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) Assigned() bool { return l.AgentID != nil && *l.AgentID != "" }

// OwnedBy 状态/备注的修改只允许归属坐席本人
func (l *Lead) OwnedBy(userID string) bool {
	return l.AgentID != nil && *l.AgentID == userID
}

// UploadedLeadFile 导入文件的审计记录，只追加不修改
type UploadedLeadFile struct {
	ID         string    `gorm:"primaryKey;size:32" json:"id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	AgentID    string    `gorm:"size:32;not null;index" json:"agent_id"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (UploadedLeadFile) TableName() string { return "uploaded_lead_files" }

// AgentStatusSummary 管理端首页的按坐席汇总
type AgentStatusSummary struct {
	AgentID       string `json:"agent_id"`
	Username      string `json:"username"`
	Total         int64  `json:"total"`
	Interested    int64  `json:"interested"`
	NotInterested int64  `json:"not_interested"`
	TalkToLater   int64  `json:"talk_later"`
	Pending       int64  `json:"pending"`
}

type LeadRepository interface {
	Create(l *Lead) error
	FindByID(id string) (*Lead, error)
	ListByAgent(agentID string) ([]Lead, error)
	ListByAgentOn(agentID string, day time.Time) ([]Lead, error)
	ListInterestedOn(agentID string, day time.Time) ([]Lead, error)
	AssignedDates(agentID string) ([]time.Time, error)
	ListWithEmail(agentID string) ([]Lead, error)
	Search(q string) ([]Lead, error)
	UpdateStatus(id string, status Status) error
	UpdateNote(id, note string) error
	PendingCountOn(agentID string, day time.Time) (int64, error)
	CountOn(agentID string, day time.Time) (int64, error)
}
