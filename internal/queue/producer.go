package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Producer struct {
	Ch *amqp.Channel
}

func NewProducer(r *RabbitMQ) *Producer { return &Producer{Ch: r.Ch} }

func (p *Producer) PublishMail(ctx context.Context, job MailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}
	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish mail job: %w", err)
	}
	return nil
}

// Send 让 Producer 满足 mail.Sender，投递即视为成功
func (p *Producer) Send(to, subject, body string) error {
	return p.PublishMail(context.Background(), MailJob{To: to, Subject: subject, Body: body})
}
