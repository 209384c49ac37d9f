package handlers

import (
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/analysis"
	"github.com/truthcheck/truthcheck/internal/chat"
	"github.com/truthcheck/truthcheck/internal/config"
	"github.com/truthcheck/truthcheck/internal/detect"
	"github.com/truthcheck/truthcheck/internal/email"
	"github.com/truthcheck/truthcheck/internal/faq"
	"github.com/truthcheck/truthcheck/internal/notify"
	"github.com/truthcheck/truthcheck/internal/store/redisstore"
)

type Handler struct {
	DB          *gorm.DB
	Cfg         config.Config
	Redis       *redisstore.Store
	SMTPSetting email.SMTPConfig

	AnalysisSvc *analysis.Service
	ChatSvc     *chat.Service
	Notify      *notify.Repo
}

func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, pub analysis.Publisher) *Handler {
	reg := detect.NewRegistry()
	reg.Register("mock", func() (detect.Detector, error) {
		return detect.NewMockDetector(cfg.AnalysisLatency), nil
	})

	notifyRepo := notify.NewRepo(db)
	guard := analysis.NewRedisGuard(rds, 10*cfg.AnalysisLatency)
	analysisSvc := analysis.NewService(analysis.NewRepo(db), reg, cfg.Detector, guard, pub, notifyRepo)

	responder := faq.NewResponder(nil, cfg.ChatReplyLatency)
	chatSvc := chat.NewService(chat.NewRepo(db), responder)

	return &Handler{
		DB:    db,
		Cfg:   cfg,
		Redis: rds,
		SMTPSetting: email.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		},
		AnalysisSvc: analysisSvc,
		ChatSvc:     chatSvc,
		Notify:      notifyRepo,
	}
}
