package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"educall-server/internal/domain"
)

const sampleCSV = "Name,Phone,Email,City,State,Course\n" +
	"Ravi Kumar,5551230001,ravi@example.com,Pune,MH,BBA\n" +
	"Meera Shah,5551230002,,Mumbai,MH,MBA\n" +
	"Arjun Rao,5551230003,arjun@example.com,,,\n"

func TestImportCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewImporter(db, noCache())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")

	n, err := svc.Import([]byte(sampleCSV), "batch.csv", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var leads []domain.Lead
	require.NoError(t, db.Order("name").Find(&leads).Error)
	require.Len(t, leads, 3)
	for _, l := range leads {
		assert.Equal(t, domain.StatusPending, l.Status)
		require.NotNil(t, l.AgentID)
		assert.Equal(t, agent.ID, *l.AgentID)
		require.NotNil(t, l.AssignedAt)
	}
	assert.Equal(t, "Meera Shah", leads[1].Name)
	assert.Empty(t, leads[1].Email)

	var uploads []domain.UploadedLeadFile
	require.NoError(t, db.Find(&uploads).Error)
	require.Len(t, uploads, 1)
	assert.Equal(t, "batch.csv", uploads[0].Filename)
	assert.Equal(t, agent.ID, uploads[0].AgentID)
}

func TestImportXLSX(t *testing.T) {
	db := newTestDB(t)
	svc := NewImporter(db, noCache())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Phone", "Email"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Ravi", "5551230001", "ravi@example.com"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Meera", "5551230002", ""}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	n, err := svc.Import(buf.Bytes(), "batch.xlsx", agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImportRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewImporter(db, noCache())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")
	admin := seedUser(t, db, "boss", domain.RoleAdmin, "")

	_, err := svc.Import([]byte(sampleCSV), "leads.txt", agent.ID)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = svc.Import([]byte("Name,Email\nRavi,r@example.com\n"), "batch.csv", agent.ID)
	assert.ErrorContains(t, err, "Name and Phone")

	_, err = svc.Import([]byte("Name,Phone\nRavi,\n"), "batch.csv", agent.ID)
	assert.ErrorContains(t, err, "row 2")

	_, err = svc.Import([]byte("Name,Phone\n"), "batch.csv", agent.ID)
	assert.ErrorContains(t, err, "no data rows")

	_, err = svc.Import([]byte(sampleCSV), "batch.csv", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Import([]byte(sampleCSV), "batch.csv", admin.ID)
	assert.ErrorIs(t, err, domain.ErrNotAnAgent)

	// 前面的失败不应落任何线索
	var count int64
	require.NoError(t, db.Model(&domain.Lead{}).Count(&count).Error)
	assert.Zero(t, count)
}
