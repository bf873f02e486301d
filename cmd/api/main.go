package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/arpitk/portfolio-backend/internal/config"
	"github.com/arpitk/portfolio-backend/internal/infra/auth"
	"github.com/arpitk/portfolio-backend/internal/infra/database"
	"github.com/arpitk/portfolio-backend/internal/infra/http/handlers"
	"github.com/arpitk/portfolio-backend/internal/infra/mail"
	"github.com/arpitk/portfolio-backend/internal/infra/queue"
	"github.com/arpitk/portfolio-backend/internal/usecase"
	"github.com/arpitk/portfolio-backend/pkg/logger"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Storage
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = database.EnsureSchema(ctx, db)
	cancel()
	if err != nil {
		logger.Log.Fatal("schema bootstrap failed", zap.Error(err))
	}

	leadRepo := database.NewLeadRepository(db)

	// Authorization: three schemes behind one gate.
	tokenStore := auth.NewTokenStore(cfg.TokenTTL)
	claimsCodec := auth.NewClaimsCodec(cfg.JWTSecretKey, cfg.TokenTTL)
	gate := auth.NewGate(
		auth.NewSecretVerifier(cfg.AdminSecretKey),
		auth.NewLegacyTokenVerifier(tokenStore),
		auth.NewClaimsVerifier(claimsCodec),
	)

	// Periodic purge of expired legacy tokens. Memory hygiene only; lookups
	// already check expiry.
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if purged := tokenStore.Cleanup(); purged > 0 {
				logger.Log.Debug("purged expired admin tokens", zap.Int("count", purged))
			}
		}
	}()

	// Mail delivery
	sender := mail.NewEmailSender(
		mail.SMTPConfig{Host: cfg.MailHost, Port: cfg.MailPort, User: cfg.MailUser, Password: cfg.MailPass},
		mail.SenderOptions{
			From:         cfg.EmailFrom,
			FrontendURL:  cfg.FrontendURL,
			CalendlyLink: cfg.CalendlyLink,
			Phone:        cfg.ContactPhone,
		},
	)

	// Notification dispatch: through the broker when configured, otherwise
	// in-process goroutines. Both are fire-and-forget.
	var (
		dispatcher queue.DispatcherInterface
		amqpConn   *amqp.Connection
	)
	if cfg.AMQPURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			logger.Log.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer rabbit.Close()
		amqpConn = rabbit.Conn

		worker, err := queue.NewWorker(rabbit.Ch, sender, cfg.MailWorkers)
		if err != nil {
			logger.Log.Fatal("notification worker setup failed", zap.Error(err))
		}
		defer worker.Stop()
		if err := worker.Start(queue.QueueName); err != nil {
			logger.Log.Fatal("notification worker failed to consume", zap.Error(err))
		}

		dispatcher = queue.NewProducer(rabbit.Ch)
	} else {
		logger.Log.Info("AMQP_URL not set, dispatching notifications in-process")
		dispatcher = queue.NewLocalDispatcher(sender)
	}

	// Usecases
	submitContactUC := usecase.NewSubmitContactUseCase(leadRepo, dispatcher, cfg.AdminEmail)
	requestCVUC := usecase.NewRequestCVUseCase(leadRepo, dispatcher, cfg.AdminEmail, cfg.CVPath)

	// Handlers
	router := handlers.NewRouter(handlers.RouterDeps{
		Contact:     handlers.NewContactHandler(submitContactUC, requestCVUC),
		Auth:        handlers.NewAuthHandler(cfg.AdminSecretKey, tokenStore, claimsCodec, gate),
		Admin:       handlers.NewAdminLeadHandler(leadRepo),
		Health:      handlers.NewHealthHandler(db, amqpConn),
		Gate:        gate,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Log.Info("portfolio backend listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
