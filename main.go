package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/turfnote/turfapi/config"
	"github.com/turfnote/turfapi/db"
	"github.com/turfnote/turfapi/handlers"
	"github.com/turfnote/turfapi/ingest"
	applog "github.com/turfnote/turfapi/logger"
	mw "github.com/turfnote/turfapi/middleware"
	"github.com/turfnote/turfapi/notify"
	"github.com/turfnote/turfapi/pmu"
	"github.com/turfnote/turfapi/sched"
	"github.com/turfnote/turfapi/settlement"
	"github.com/turfnote/turfapi/store"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	st := store.New(bdb)
	client := pmu.NewClient(cfg.PMUBaseURL, cfg.PMUFetchTimeout, logger)
	reports := settlement.NewReportStore(bdb, logger)

	syncer := ingest.New(client, st, reports, logger)
	syncer.FetchDelay = cfg.PMUFetchDelay

	notifier := notify.New(st, logger,
		notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom),
		notify.NewPushSender(cfg.PushURL),
	)

	resolver := settlement.NewResolver(logger)
	odds := settlement.NewOddsEngine(reports, st, logger)

	settler := sched.NewSettler(st, st, syncer, resolver, odds, notifier, logger)
	settler.Grace = cfg.SettleGrace
	settler.Delay = cfg.PMUFetchDelay

	runner := sched.NewRunner(logger, context.Background())
	if _, err := runner.Add(cfg.SettleCronSpec, settler.Tick); err != nil {
		logger.Fatal("schedule settlement failed", zap.Error(err))
	}
	runner.Start()
	defer runner.Stop()

	h := handlers.New(bdb, cfg.JWTKey(), syncer)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.GET("/bets", h.ListBets)
	api.POST("/bets", h.CreateBet)
	api.POST("/bets/:id/settle", h.SettleBet)
	api.DELETE("/bets/:id", h.DeleteBet)
	api.GET("/races", h.Races)
	api.GET("/races/:id/reports", h.RaceReports)
	api.POST("/sync-program", h.SyncProgram)

	logger.Info("starting server", zap.Bool("debug", cfg.Debug), zap.String("addr", cfg.Port))
	if err := e.Start(cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
