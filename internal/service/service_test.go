package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"educall-server/internal/core/cache"
	"educall-server/internal/domain"
	"educall-server/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Lead{}, &domain.UploadedLeadFile{}))
	return db
}

func noCache() *cache.Cache { return cache.New("", "", 0) }

// fakeSender 记录每封信，必要时模拟指定收件人失败
type fakeSender struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[to] {
		return fmt.Errorf("smtp refused")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func seedUser(t *testing.T, db *gorm.DB, username, role, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: utils.HashPassword("secret123"),
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedLead(t *testing.T, db *gorm.DB, name string, agentID *string, assigned time.Time, status domain.Status) *domain.Lead {
	t.Helper()
	l := &domain.Lead{
		ID:     utils.NewID(),
		Name:   name,
		Email:  name + "@example.com",
		Phone:  "5550001111",
		Status: status,
	}
	if agentID != nil {
		l.AgentID = agentID
		at := assigned
		l.AssignedAt = &at
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
