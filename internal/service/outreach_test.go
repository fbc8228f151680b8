package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"educall-server/internal/domain"
)

func TestSendToLead(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{}
	svc := NewOutreach(db, sender, zap.NewNop())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")
	lead := seedLead(t, db, "Ravi", &agent.ID, time.Now(), domain.StatusPending)

	err := svc.SendToLead(LeadMessageInput{
		LeadID: lead.ID, ActorID: agent.ID,
		Message: "We have a seat for you", NoteToAdmin: "warm lead",
	})
	require.NoError(t, err)
	require.Equal(t, 1, sender.count())
	assert.Equal(t, "Ravi@example.com", sender.sent[0].To)

	var got domain.Lead
	require.NoError(t, db.First(&got, "id = ?", lead.ID).Error)
	assert.Equal(t, "warm lead", got.NoteToAdmin)
}

func TestSendToLeadOnlyNote(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{}
	svc := NewOutreach(db, sender, zap.NewNop())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")
	lead := seedLead(t, db, "Ravi", &agent.ID, time.Now(), domain.StatusPending)

	err := svc.SendToLead(LeadMessageInput{
		LeadID: lead.ID, ActorID: agent.ID,
		NoteToAdmin: "call next week", OnlyNote: true,
	})
	require.NoError(t, err)
	assert.Zero(t, sender.count())
}

func TestSendToLeadErrors(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{failTo: map[string]bool{"Ravi@example.com": true}}
	svc := NewOutreach(db, sender, zap.NewNop())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")
	lead := seedLead(t, db, "Ravi", &agent.ID, time.Now(), domain.StatusPending)

	err := svc.SendToLead(LeadMessageInput{LeadID: "missing", ActorID: agent.ID, Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.SendToLead(LeadMessageInput{LeadID: lead.ID, ActorID: "stranger", Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	err = svc.SendToLead(LeadMessageInput{LeadID: lead.ID, ActorID: agent.ID, Message: "   "})
	assert.ErrorContains(t, err, "message is empty")

	err = svc.SendToLead(LeadMessageInput{LeadID: lead.ID, ActorID: agent.ID, Message: "hi"})
	assert.ErrorIs(t, err, ErrSendFailed)

	// 没有邮箱地址的线索
	noMail := seedLead(t, db, "Silent", &agent.ID, time.Now(), domain.StatusPending)
	require.NoError(t, db.Model(&domain.Lead{}).Where("id = ?", noMail.ID).Update("email", "").Error)
	err = svc.SendToLead(LeadMessageInput{LeadID: noMail.ID, ActorID: agent.ID, Message: "hi"})
	assert.ErrorContains(t, err, "valid email")
}

func TestBulkToAll(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{failTo: map[string]bool{"Bad@example.com": true}}
	svc := NewOutreach(db, sender, zap.NewNop())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")

	seedLead(t, db, "Good", &agent.ID, time.Now(), domain.StatusPending)
	seedLead(t, db, "Bad", &agent.ID, time.Now(), domain.StatusPending)
	skip := seedLead(t, db, "Skip", &agent.ID, time.Now(), domain.StatusPending)
	require.NoError(t, db.Model(&domain.Lead{}).Where("id = ?", skip.ID).Update("email", "not-an-address").Error)

	res, err := svc.BulkToAll("Admissions open", "Apply now")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Skipped)
}

func TestBulkToAgent(t *testing.T) {
	db := newTestDB(t)
	sender := &fakeSender{}
	svc := NewOutreach(db, sender, zap.NewNop())
	agent := seedUser(t, db, "agent1", domain.RoleAgent, "")
	other := seedUser(t, db, "agent2", domain.RoleAgent, "")
	seedLead(t, db, "Mine", &agent.ID, time.Now(), domain.StatusPending)
	seedLead(t, db, "Theirs", &other.ID, time.Now(), domain.StatusPending)

	res, err := svc.BulkToAgent("agent1", "Hello", "Body")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, sender.count())
	assert.Equal(t, "Mine@example.com", sender.sent[0].To)

	_, err = svc.BulkToAgent("ghost", "Hello", "Body")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
