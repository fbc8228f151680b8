// 批量导入：上传的表格文件解析成线索并整批入库。
// 解析失败或任一行缺必填字段都让整批失败，不落半截数据。
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"educall-server/internal/cachekey"
	"educall-server/internal/core/cache"
	"educall-server/internal/domain"
	"educall-server/internal/repo"
	"educall-server/pkg/utils"
)

type Importer struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewImporter(db *gorm.DB, c *cache.Cache) *Importer {
	return &Importer{db: db, cache: c}
}

type leadRow struct {
	name, phone, email, city, state, course string
}

// Import 解析 .csv/.xls/.xlsx 并把全部行分配给目标坐席。
// 成功时返回行数并追加一条 UploadedLeadFile 审计记录。
func (s *Importer) Import(data []byte, filename, agentID string) (int, error) {
	rows, err := parseTabular(data, filename)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("file contains no data rows")
	}

	now := time.Now()
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		agent, e := repo.NewUserRepo(tx).FindByID(agentID)
		if e != nil {
			return e
		}
		if agent == nil {
			return domain.ErrNotFound
		}
		if agent.Role != domain.RoleAgent {
			return domain.ErrNotAnAgent
		}

		leads := repo.NewLeadRepo(tx)
		for _, r := range rows {
			lead := &domain.Lead{
				ID:         utils.NewID(),
				Name:       r.name,
				Email:      r.email,
				Phone:      r.phone,
				City:       r.city,
				State:      r.state,
				Course:     r.course,
				Status:     domain.StatusPending,
				AgentID:    &agent.ID,
				AssignedAt: &now,
			}
			if e := leads.Create(lead); e != nil {
				return e
			}
		}

		return repo.NewUploadRepo(tx).Record(&domain.UploadedLeadFile{
			ID:       utils.NewID(),
			Filename: filepath.Base(filename),
			AgentID:  agent.ID,
		})
	})
	if txErr != nil {
		return 0, txErr
	}

	s.cache.Invalidate(context.Background(), cachekey.AssignedDates(agentID))
	return len(rows), nil
}

func parseTabular(data []byte, filename string) ([]leadRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".xls", ".xlsx":
		// 真正的 BIFF 格式 .xls 这里打不开，会带原因报解析失败
		return parseExcel(data)
	default:
		return nil, domain.ErrUnsupportedFormat
	}
}

func parseCSV(data []byte) ([]leadRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsFromRecords(records)
}

func parseExcel(data []byte) ([]leadRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("parse excel: workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("parse excel: %w", err)
	}
	return rowsFromRecords(records)
}

// rowsFromRecords 首行是表头。Name 和 Phone 必须有列且每行都有值；
// Email/City/State/Course 缺了按空处理。
func rowsFromRecords(records [][]string) ([]leadRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameCol, okName := cols["name"]
	phoneCol, okPhone := cols["phone"]
	if !okName || !okPhone {
		return nil, fmt.Errorf("required columns Name and Phone not found")
	}

	cell := func(rec []string, col int, ok bool) string {
		if !ok || col >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[col])
	}
	emailCol, okEmail := cols["email"]
	cityCol, okCity := cols["city"]
	stateCol, okState := cols["state"]
	courseCol, okCourse := cols["course"]

	var rows []leadRow
	for i, rec := range records[1:] {
		row := leadRow{
			name:   cell(rec, nameCol, true),
			phone:  cell(rec, phoneCol, true),
			email:  cell(rec, emailCol, okEmail),
			city:   cell(rec, cityCol, okCity),
			state:  cell(rec, stateCol, okState),
			course: cell(rec, courseCol, okCourse),
		}
		if row.name == "" || row.phone == "" {
			return nil, fmt.Errorf("row %d: Name and Phone are required", i+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
