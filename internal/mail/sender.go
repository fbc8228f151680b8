// Package mail SMTP 通知投递。发送失败以 error 返回，
// 绝不向上抛 panic，调用方按收件人计数成功/失败继续跑。
package mail

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/gomail.v2"
)

var (
	mailSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mail_send_total", Help: "Count of mail delivery attempts"},
		[]string{"result"},
	)
)

func init() { prometheus.MustRegister(mailSentTotal) }

// Sender 是生命周期引擎看到的发信能力
type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	if from == "" {
		from = username
	}
	return &SMTPSender{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if body == "" {
		body = "No message was provided."
	}
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	if err := d.DialAndSend(m); err != nil {
		mailSentTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	mailSentTotal.WithLabelValues("sent").Inc()
	return nil
}

// ValidAddress 群发前的语法过滤，不保证可达
func ValidAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" || !strings.Contains(addr, "@") {
		return false
	}
	_, err := mail.ParseAddress(addr)
	return err == nil
}
