package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/job_portal/internal/config"
	"github.com/Skotchmaster/job_portal/internal/db"
	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/google"
	"github.com/Skotchmaster/job_portal/internal/httpserver"
	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/metrics"
	loggingmw "github.com/Skotchmaster/job_portal/internal/middleware/logging"
	"github.com/Skotchmaster/job_portal/internal/middleware/ratelimit"
	"github.com/Skotchmaster/job_portal/internal/notify"
	"github.com/Skotchmaster/job_portal/internal/repo"
	"github.com/Skotchmaster/job_portal/internal/service"
	"github.com/Skotchmaster/job_portal/internal/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("store open: %v", err)
	}

	var verifier google.Verifier = google.Disabled{}
	if cfg.GoogleClientID != "" {
		v, err := google.NewIDTokenVerifier(initCtx, cfg.GoogleClientID)
		if err != nil {
			cancel()
			log.Fatalf("google verifier: %v", err)
		}
		verifier = v
	} else {
		logger.Warn("google_login_disabled", "reason", "GOOGLE_CLIENT_ID is empty")
	}
	cancel()

	mailer, closeMailer, err := openMailer(cfg, logger)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		logger.Warn("events_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	if len(cfg.SuperAdminEmails) == 0 {
		logger.Warn("superadmin_guard_open", "reason", "SUPERADMIN_EMAILS is empty, admin request routes are unauthenticated")
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(m.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.ClientURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Users:     store,
				Tokens:    tokens.NewIssuer(cfg.JWTSecret, cfg.SessionTTL),
				Google:    verifier,
				Mailer:    mailer,
				Events:    publisher,
				ClientURL: cfg.ClientURL,
			},
			Metrics: m,
		},
		AdminHandler: &httpserver.AdminHTTP{
			Svc: &service.AdminService{
				Users:    store,
				Requests: store,
				Mailer:   mailer,
				Events:   publisher,
			},
			Metrics: m,
		},
		JobsHandler: &httpserver.JobsHTTP{
			Svc: &service.JobService{
				Jobs:         store,
				Applications: store,
				Users:        store,
				Mailer:       mailer,
				Events:       publisher,
			},
		},
		JWTSecret:   cfg.JWTSecret,
		SuperAdmins: cfg.SuperAdminEmails,
		Limiter:     ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:     m,
		Store:       store,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "store", cfg.StoreDriver, "mail", cfg.MailTransport)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("events_close_failed", "error", err)
	}
	if err := closeMailer(); err != nil {
		logger.Error("mailer_close_failed", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("store_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}

func openStore(ctx context.Context, cfg config.Config) (repo.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		r, err := repo.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.StoreSQLite:
		path := cfg.DatabaseURL
		if path == "" {
			path = "job_portal.db"
		}
		gdb, err := db.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return repo.NewGormRepo(gdb), nil
	default:
		gdb, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repo.NewGormRepo(gdb), nil
	}
}

func openMailer(cfg config.Config, logger *slog.Logger) (notify.Mailer, func() error, error) {
	noop := func() error { return nil }

	switch cfg.MailTransport {
	case config.MailQueue:
		q, err := notify.DialQueue(cfg.RabbitMQURL, cfg.MailQueueName)
		if err != nil {
			return nil, nil, err
		}
		return q, q.Close, nil
	case config.MailLog:
		return notify.LogMailer{Logger: logger}, noop, nil
	default:
		m, err := notify.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			return nil, nil, err
		}
		return m, noop, nil
	}
}
