package queue

import (
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"educall-server/internal/mail"
)

// Worker 消费 q.mail 并走 SMTP 投递。
// JSON 损坏的消息直接丢 DLQ；发送失败也进 DLQ，不做原地重试。
type Worker struct {
	Ch     *amqp.Channel
	Sender mail.Sender
	Log    *zap.Logger
}

func NewWorker(r *RabbitMQ, sender mail.Sender, log *zap.Logger) *Worker {
	return &Worker{Ch: r.Ch, Sender: sender, Log: log}
}

func (w *Worker) Run() error {
	msgs, err := w.Ch.Consume(
		QueueName,
		"",    // consumer tag
		false, // manual ack
		false, false, false, nil,
	)
	if err != nil {
		return err
	}

	w.Log.Info("mail worker consuming", zap.String("queue", QueueName))
	for d := range msgs {
		w.handle(d)
	}
	return nil
}

func (w *Worker) handle(d amqp.Delivery) {
	var job MailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		w.Log.Error("mail job malformed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	if err := w.Sender.Send(job.To, job.Subject, job.Body); err != nil {
		w.Log.Error("mail send failed", zap.String("to", job.To), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	w.Log.Info("mail sent", zap.String("to", job.To))
	_ = d.Ack(false)
}
