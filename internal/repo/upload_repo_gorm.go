package repo

import (
	"gorm.io/gorm"

	"educall-server/internal/domain"
)

// UploadRepo 导入审计记录，只有追加和查询
type UploadRepo struct{ db *gorm.DB }

func NewUploadRepo(db *gorm.DB) *UploadRepo { return &UploadRepo{db: db} }

func (r *UploadRepo) Record(f *domain.UploadedLeadFile) error { return r.db.Create(f).Error }

func (r *UploadRepo) ListByAgent(agentID string) ([]domain.UploadedLeadFile, error) {
	var files []domain.UploadedLeadFile
	err := r.db.Where("agent_id = ?", agentID).
		Order("uploaded_at DESC").Find(&files).Error
	return files, err
}
