// 报表/导出：纯读路径，按 assigned_at 的日历日分组
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"educall-server/internal/cachekey"
	"educall-server/internal/core/cache"
	"educall-server/internal/domain"
	"educall-server/internal/repo"
)

const dateLayout = "2006-01-02"

type Reporting struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewReporting(db *gorm.DB, c *cache.Cache) *Reporting {
	return &Reporting{db: db, cache: c}
}

func ParseDay(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return d, nil
}

// AssignedDates 该坐席有过分配的所有日期（YYYY-MM-DD，倒序）。
// 配置了 redis 时缓存 30 秒，分配/导入时失效。
func (s *Reporting) AssignedDates(ctx context.Context, agentID string) ([]string, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, cachekey.AssignedDates(agentID), 30*time.Second,
		func(ctx context.Context) ([]string, error) {
			days, err := repo.NewLeadRepo(s.db).AssignedDates(agentID)
			if err != nil {
				return nil, err
			}
			out := make([]string, 0, len(days))
			for _, d := range days {
				out = append(out, d.Format(dateLayout))
			}
			return out, nil
		})
}

func (s *Reporting) LeadsByDate(agentID, rawDate string) ([]domain.Lead, error) {
	day, err := ParseDay(rawDate)
	if err != nil {
		return nil, err
	}
	return repo.NewLeadRepo(s.db).ListByAgentOn(agentID, day)
}

func (s *Reporting) AgentLeads(agentID string) ([]domain.Lead, error) {
	return repo.NewLeadRepo(s.db).ListByAgent(agentID)
}

// ExportInterested 当天 Interested 的线索导出成 xlsx 字节流
func (s *Reporting) ExportInterested(agentID, rawDate string) ([]byte, error) {
	day, err := ParseDay(rawDate)
	if err != nil {
		return nil, err
	}
	leads, err := repo.NewLeadRepo(s.db).ListInterestedOn(agentID, day)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Interested Leads"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	header := []any{"Name", "Email", "Phone", "City", "State", "Course", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	for i, l := range leads {
		row := []any{l.Name, l.Email, l.Phone, l.City, l.State, l.Course, l.Status.String()}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return nil, fmt.Errorf("build workbook: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type SearchResult struct {
	Agents []domain.User `json:"agents"`
	Leads  []domain.Lead `json:"leads"`
}

// Search 管理端跨实体模糊检索；长度不足 2 个字符直接返回空
func (s *Reporting) Search(q string) (*SearchResult, error) {
	res := &SearchResult{Agents: []domain.User{}, Leads: []domain.Lead{}}
	if len([]rune(q)) < 2 {
		return res, nil
	}
	agents, err := repo.NewUserRepo(s.db).SearchAgents(q)
	if err != nil {
		return nil, err
	}
	leads, err := repo.NewLeadRepo(s.db).Search(q)
	if err != nil {
		return nil, err
	}
	res.Agents = agents
	res.Leads = leads
	return res, nil
}

// AdminSummary 管理端首页：每个坐席的线索量与状态分布
func (s *Reporting) AdminSummary() ([]domain.AgentStatusSummary, error) {
	agents, err := repo.NewUserRepo(s.db).ListByRole(domain.RoleAgent)
	if err != nil {
		return nil, err
	}
	leadRepo := repo.NewLeadRepo(s.db)
	out := make([]domain.AgentStatusSummary, 0, len(agents))
	for _, a := range agents {
		leads, err := leadRepo.ListByAgent(a.ID)
		if err != nil {
			return nil, err
		}
		sum := domain.AgentStatusSummary{AgentID: a.ID, Username: a.Username, Total: int64(len(leads))}
		for _, l := range leads {
			switch l.Status {
			case domain.StatusInterested:
				sum.Interested++
			case domain.StatusNotInterested:
				sum.NotInterested++
			case domain.StatusTalkToLater:
				sum.TalkToLater++
			case domain.StatusPending, "":
				sum.Pending++
			}
		}
		out = append(out, sum)
	}
	return out, nil
}
