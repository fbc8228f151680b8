package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"educall-server/internal/core/config"
	"educall-server/internal/core/logger"
	"educall-server/internal/mail"
	"educall-server/internal/queue"
)

// 邮件 worker：消费 q.mail，真正走 SMTP。api 进程只管投递任务。
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if cfg.Queue.URL == "" {
		log.Fatal("queue.url is required for the mail worker")
	}

	mq, err := queue.NewRabbitMQ(cfg.Queue.URL)
	if err != nil {
		log.Fatal("rabbitmq connect failed", zap.Error(err))
	}
	defer mq.Close()

	sender := mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	w := queue.NewWorker(mq, sender, log)

	log.Info("mail worker started")
	if err := w.Run(); err != nil {
		log.Fatal("mail worker stopped", zap.Error(err))
	}
}
