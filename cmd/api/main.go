package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"educall-server/internal/core/cache"
	"educall-server/internal/core/config"
	"educall-server/internal/core/database"
	"educall-server/internal/core/logger"
	"educall-server/internal/core/server"
	"educall-server/internal/core/session"
	"educall-server/internal/domain"
	"educall-server/internal/mail"
	"educall-server/internal/queue"
	"educall-server/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Lead{}, &domain.UploadedLeadFile{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	sessions := session.NewManager(
		cfg.Session.Secret,
		cfg.Session.Issuer,
		cfg.Session.CookieName,
		time.Duration(cfg.Session.TTLMin)*time.Minute,
	)

	// 邮件：开了队列就投 RabbitMQ 由 worker 发，否则请求内直连 SMTP
	var notifier mail.Sender
	smtp := mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	if cfg.Queue.Enabled {
		mq, err := queue.NewRabbitMQ(cfg.Queue.URL)
		if err != nil {
			log.Fatal("rabbitmq connect failed", zap.Error(err))
		}
		defer mq.Close()
		notifier = queue.NewProducer(mq)
		log.Info("mail via queue", zap.String("queue", queue.QueueName))
	} else {
		notifier = smtp
		log.Info("mail via direct smtp", zap.String("host", cfg.Mail.Host))
	}

	rcache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if rcache.Enabled() {
		log.Info("report cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	r := router.NewEngine(router.Deps{
		Log:      log,
		DB:       db,
		Sessions: sessions,
		Notifier: notifier,
		Cache:    rcache,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("educall api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("educall api start FAILED", zap.Error(err))
		}
	}()
	log.Info("educall api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("educall api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.New(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
