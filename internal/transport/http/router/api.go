package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"educall-server/internal/core/cache"
	"educall-server/internal/core/session"
	"educall-server/internal/mail"
	"educall-server/internal/repo"
	"educall-server/internal/service"
	"educall-server/internal/transport/http/handler"
	mdw "educall-server/internal/transport/http/middleware"
)

// Deps 启动期装配好的依赖，显式传入，不走包级全局
type Deps struct {
	Log      *zap.Logger
	DB       *gorm.DB
	Sessions *session.Manager
	Notifier mail.Sender // 直连 SMTP 或队列 producer
	Cache    *cache.Cache
}

func NewEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(30*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accounts := service.NewAccounts(d.DB)
	lifecycle := service.NewLifecycle(d.DB, d.Notifier, d.Cache, d.Log)
	importer := service.NewImporter(d.DB, d.Cache)
	reporting := service.NewReporting(d.DB, d.Cache)
	outreach := service.NewOutreach(d.DB, d.Notifier, d.Log)
	uploads := repo.NewUploadRepo(d.DB)

	handler.NewAuthHandler(accounts, reporting, d.Sessions, d.Log).Mount(r)
	handler.NewAdminHandler(accounts, lifecycle, importer, reporting, outreach, uploads, d.Sessions, d.Log).Mount(r)
	handler.NewAgentHandler(lifecycle, reporting, outreach, d.Sessions, d.Log).Mount(r)

	return r
}
