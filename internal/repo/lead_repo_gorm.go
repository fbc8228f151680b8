package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"educall-server/internal/domain"
)

type LeadRepo struct{ db *gorm.DB }

func NewLeadRepo(db *gorm.DB) *LeadRepo { return &LeadRepo{db: db} }

func (r *LeadRepo) Create(l *domain.Lead) error { return r.db.Create(l).Error }

func (r *LeadRepo) FindByID(id string) (*domain.Lead, error) {
	var l domain.Lead
	err := r.db.First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *LeadRepo) ListByAgent(agentID string) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.Where("agent_id = ?", agentID).
		Order("created_at DESC").Find(&leads).Error
	return leads, err
}

// dayRange 按 [当天0点, 次日0点) 过滤，避免各数据库 DATE() 方言差异
func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *LeadRepo) ListByAgentOn(agentID string, day time.Time) ([]domain.Lead, error) {
	start, end := dayRange(day)
	var leads []domain.Lead
	err := r.db.Where("agent_id = ? AND assigned_at >= ? AND assigned_at < ?", agentID, start, end).
		Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *LeadRepo) ListInterestedOn(agentID string, day time.Time) ([]domain.Lead, error) {
	start, end := dayRange(day)
	var leads []domain.Lead
	err := r.db.Where("agent_id = ? AND status = ? AND assigned_at >= ? AND assigned_at < ?",
		agentID, domain.StatusInterested, start, end).
		Order("name").Find(&leads).Error
	return leads, err
}

// AssignedDates 该坐席名下出现过分配的所有日历日（去重后倒序）。
// 日期归并放在 Go 侧做，一个坐席的线索量撑不起方言化 SQL 的收益。
func (r *LeadRepo) AssignedDates(agentID string) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.Model(&domain.Lead{}).
		Where("agent_id = ? AND assigned_at IS NOT NULL", agentID).
		Order("assigned_at DESC").
		Pluck("assigned_at", &stamps).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(stamps))
	var days []time.Time
	for _, ts := range stamps {
		d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		key := d.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, d)
	}
	return days, nil
}

// ListWithEmail 群发邮件的候选集合；agentID 为空表示全量
func (r *LeadRepo) ListWithEmail(agentID string) ([]domain.Lead, error) {
	q := r.db.Where("email IS NOT NULL AND email <> ''")
	if agentID != "" {
		q = q.Where("agent_id = ?", agentID)
	}
	var leads []domain.Lead
	err := q.Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *LeadRepo) Search(q string) ([]domain.Lead, error) {
	like := "%" + q + "%"
	var leads []domain.Lead
	err := r.db.Where(
		"name LIKE ? OR email LIKE ? OR phone LIKE ? OR city LIKE ? OR state LIKE ? OR course LIKE ? OR status LIKE ?",
		like, like, like, like, like, like, like,
	).Order("created_at DESC").Find(&leads).Error
	return leads, err
}

func (r *LeadRepo) UpdateStatus(id string, status domain.Status) error {
	res := r.db.Model(&domain.Lead{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) UpdateNote(id, note string) error {
	res := r.db.Model(&domain.Lead{}).Where("id = ?", id).Update("note_to_admin", note)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) PendingCountOn(agentID string, day time.Time) (int64, error) {
	start, end := dayRange(day)
	var n int64
	err := r.db.Model(&domain.Lead{}).
		Where("agent_id = ? AND assigned_at >= ? AND assigned_at < ?", agentID, start, end).
		Where("status = ? OR status IS NULL OR status = ''", domain.StatusPending).
		Count(&n).Error
	return n, err
}

func (r *LeadRepo) CountOn(agentID string, day time.Time) (int64, error) {
	start, end := dayRange(day)
	var n int64
	err := r.db.Model(&domain.Lead{}).
		Where("agent_id = ? AND assigned_at >= ? AND assigned_at < ?", agentID, start, end).
		Count(&n).Error
	return n, err
}
