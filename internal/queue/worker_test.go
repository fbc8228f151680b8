package queue

import (
	"encoding/json"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSender struct {
	sent []MailJob
	fail bool
}

func (s *stubSender) Send(to, subject, body string) error {
	if s.fail {
		return fmt.Errorf("smtp down")
	}
	s.sent = append(s.sent, MailJob{To: to, Subject: subject, Body: body})
	return nil
}

func TestWorkerHandle(t *testing.T) {
	sender := &stubSender{}
	w := &Worker{Sender: sender, Log: zap.NewNop()}

	body, err := json.Marshal(MailJob{To: "x@example.com", Subject: "hi", Body: "there"})
	require.NoError(t, err)
	w.handle(amqp.Delivery{Body: body})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "x@example.com", sender.sent[0].To)
}

func TestWorkerHandleMalformed(t *testing.T) {
	sender := &stubSender{}
	w := &Worker{Sender: sender, Log: zap.NewNop()}

	w.handle(amqp.Delivery{Body: []byte("{not json")})
	assert.Empty(t, sender.sent)
}

func TestWorkerHandleSendFailure(t *testing.T) {
	sender := &stubSender{fail: true}
	w := &Worker{Sender: sender, Log: zap.NewNop()}

	body, _ := json.Marshal(MailJob{To: "x@example.com"})
	w.handle(amqp.Delivery{Body: body})
	assert.Empty(t, sender.sent)
}
