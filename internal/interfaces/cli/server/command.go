package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	deliveryApp "helpdesk/internal/application/delivery"
	escalation "helpdesk/internal/application/escalation/usecases"
	ticketUsecases "helpdesk/internal/application/ticket/usecases"
	userUsecases "helpdesk/internal/application/user/usecases"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/cache"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/infrastructure/email"
	"helpdesk/internal/infrastructure/persistence/migrations"
	"helpdesk/internal/infrastructure/repository"
	"helpdesk/internal/infrastructure/retrieval"
	"helpdesk/internal/infrastructure/telegram"
	"helpdesk/internal/infrastructure/telegram/i18n"
	httpRouter "helpdesk/internal/interfaces/http"
	authhandlers "helpdesk/internal/interfaces/http/handlers/auth"
	tickethandlers "helpdesk/internal/interfaces/http/handlers/ticket"
	userhandlers "helpdesk/internal/interfaces/http/handlers/user"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/biztime"
	shareddb "helpdesk/internal/shared/db"
	"helpdesk/internal/shared/keymutex"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/services/markdown"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the bot and the admin HTTP server",
		Long:  `Start the Telegram long-polling loop and the admin dashboard API with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run pending database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting helpdesk", "environment", env, "auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	gin.SetMode(mapEnvToGinMode(env))
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if err := migrations.Apply(database.Get(), log); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	correlations := cache.NewCorrelationStore(redisClient, time.Duration(cfg.Delivery.CorrelationTTL)*time.Hour)
	offsets := cache.NewOffsetStore(redisClient)

	ticketRepo := repository.NewTicketRepository(database.Get())
	questionRepo := repository.NewQuestionRepository(database.Get())
	userRepo := repository.NewUserRepository(database.Get())
	deliveryLogRepo := repository.NewDeliveryLogRepository(database.Get())

	gate := retrieval.NewClient(&cfg.Retrieval, log)
	operatorAlerts := email.NewOperatorAlertService(&cfg.Email, log)

	bot := telegram.NewBotService(cfg.Telegram)
	gateway := telegram.NewDeliveryGateway(bot, markdown.NewService(), i18n.ParseLang(cfg.Telegram.Language), log)
	dispatcher := deliveryApp.NewDispatcher(gateway, deliveryLogRepo, operatorAlerts, &cfg.Delivery, log)

	locks := keymutex.New()
	txMgr := shareddb.NewTransactionManager(database.Get())

	handleQuestionUC := escalation.NewHandleQuestionUseCase(
		ticketRepo, questionRepo, userRepo, gate, dispatcher, correlations, locks, txMgr, log)
	handleAdminReplyUC := escalation.NewHandleAdminReplyUseCase(
		ticketRepo, userRepo, dispatcher, correlations, locks, txMgr, log)
	closeTicketUC := escalation.NewCloseTicketUseCase(
		ticketRepo, userRepo, dispatcher, locks, txMgr, log)
	registerContactUC := userUsecases.NewRegisterContactUseCase(userRepo, cfg.Telegram.AdminChatIDs, log)

	listActiveUC := ticketUsecases.NewListActiveTicketsUseCase(ticketRepo, log)
	listClosedUC := ticketUsecases.NewListClosedTicketsUseCase(ticketRepo, log)
	listUserTicketsUC := ticketUsecases.NewListUserTicketsUseCase(ticketRepo, log)
	historyUC := ticketUsecases.NewGetTicketHistoryUseCase(ticketRepo, log)
	listUsersUC := userUsecases.NewListUsersUseCase(userRepo, log)

	updateHandler := telegram.NewPollingUpdateHandler(
		bot, registerContactUC, handleQuestionUC, handleAdminReplyUC, closeTicketUC,
		listUserTicketsUC, correlations, log)
	poller := telegram.NewPollingService(bot, updateHandler, log, offsets, cfg.Telegram.PollTimeout)

	registerBotCommands(bot, cfg.Telegram.AdminChatIDs, log)

	if err := poller.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	defer poller.Stop()

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiryHours)
	hasher := auth.NewBcryptPasswordHasher(0)

	router := httpRouter.NewRouter(&httpRouter.RouterConfig{
		AuthHandler:    authhandlers.NewAuthHandler(jwtService, hasher, cfg.Auth, log),
		TicketHandler:  tickethandlers.NewTicketHandler(listActiveUC, listClosedUC, historyUC, closeTicketUC, log),
		UserHandler:    userhandlers.NewUserHandler(listUsersUC, log),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService, log),
		Logger:         log,
	})
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("admin API listening", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("admin API server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")

	poller.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func registerBotCommands(bot *telegram.BotService, adminChatIDs []int64, log logger.Interface) {
	userCommands := []telegram.BotCommand{
		{Command: "start", Description: "How the support bot works"},
		{Command: "help", Description: "How the support bot works"},
		{Command: "tickets", Description: "List your tickets"},
		{Command: "close", Description: "Close your open ticket"},
	}
	if err := bot.SetMyCommands(userCommands); err != nil {
		log.Warnw("failed to register bot commands", "error", err)
	}

	adminCommands := []telegram.BotCommand{
		{Command: "start", Description: "How the support bot works"},
		{Command: "help", Description: "How the support bot works"},
		{Command: "tickets", Description: "List your tickets"},
		{Command: "close", Description: "Close a ticket: /close <id> or reply"},
	}
	for _, chatID := range adminChatIDs {
		if err := bot.SetMyCommandsForChat(chatID, adminCommands); err != nil {
			log.Warnw("failed to register admin commands", "chat_id", chatID, "error", err)
		}
	}
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
