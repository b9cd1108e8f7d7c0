package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/domain/event"
	grpcserver "skillsync/infrastructure/grpc/server"
	httpserver "skillsync/infrastructure/http/server"
	"skillsync/internal"
	"skillsync/moderation"
	"skillsync/observability"
	"skillsync/repositories"
	"skillsync/runtime"
	"skillsync/runtime/workers"
	"skillsync/services"
	"skillsync/sink"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and owns the lifecycle, so that deferred
// cleanups always execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(buildBadgerOpts(ctx, config, logger))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s?prefix=conv:", config.DebugPort, endpoint)
		logger.Info("Debug Badger inspector available", "url", url)
		database.StartDebugServer(db, config.DebugPort, endpoint, ConversationMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation
	var dictionaryFS fs.FS
	if config.CensoredWordsDir != "" {
		dictionaryFS = os.DirFS(config.CensoredWordsDir)
	}
	dictionary, err := moderation.LoadDictionary(dictionaryFS, ".", config.ExtraCensoredWords()...)
	if err != nil {
		return exitConfig, fmt.Errorf("censored words loading failed: %w", err)
	}
	moderator, err := moderation.NewModerator(dictionary.Words, charReplacement, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator build failed: %w", err)
	}
	logger.Info("Moderation ready", "words", len(dictionary.Words), "languages", dictionary.Languages)

	// 4. Repositories & Services
	monitoring := observability.NewMonitoringManager(logger)
	conversationRepository := repositories.NewConversationRepository(db, logger)
	userRepository := repositories.NewUserRepository(db)
	taskRepository := repositories.NewTaskRepository(db)
	messageIndex := repositories.NewMessageIndex(blugeWriter, logger)
	persisted := make(chan event.MessagePersisted, config.IndexQueueSize)

	tokens := auth.NewTokenManager(config.JWTSecret, config.JWTIssuer, config.AuthTokenDuration)
	conversationService := services.NewConversationService(logger, conversationRepository, userRepository,
		taskRepository, messageIndex, moderation.NewPolicy(moderator, config.MaxContentLength), monitoring, persisted)
	authService := services.NewAuthService(logger, userRepository, tokens)
	taskService := services.NewTaskService(logger, taskRepository)
	rewardsService := services.NewRewardsService(logger, userRepository)
	profileService := services.NewProfileService(logger, userRepository)

	gateway := runtime.NewGateway(logger, runtime.NewRegistry(), conversationRepository, monitoring, config.SinkTimeout)

	// 5. Background workers
	healthServer := grpcserver.NewHealthServer(logger)
	sup := workers.NewSupervisor(logger, monitoring, config.WorkerRestartDelay)
	sup.Add(
		workers.NewMessageIndexer(logger, messageIndex, persisted, monitoring),
		workers.NewHealthMonitoringWorker(logger, monitoring, int32(os.Getpid()), config.MetricInterval),
		workers.NewChannelCapacityWorker(logger, []workers.NamedChannel{
			{Name: "persisted_messages", Channel: persisted},
		}, monitoring, config.MetricInterval),
		healthServer,
	)
	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()

	// 6. HTTP server (REST + websocket)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = observability.NewLogWriter(logger, "gin", slog.LevelDebug)
	gin.DefaultErrorWriter = observability.NewLogWriter(logger, "gin", slog.LevelError)
	gatewayController := httpserver.NewGatewayController(ctx, logger, tokens, gateway, httpserver.GatewayConfig{
		AllowedOrigins:     config.AllowedOrigins(),
		BufferSize:         config.ConnectionBuffer,
		MaxFrameBytes:      int64(config.MaxFrameBytes),
		PingPeriod:         sink.PingPeriod,
		PongWait:           sink.PongWait,
		TrustQueryIdentity: config.TrustQueryIdentity,
	})
	router := httpserver.NewRouter(logger, tokens, userRepository, config.AllowedOrigins(), httpserver.Controllers{
		Auth:    httpserver.NewAuthController(logger, authService),
		Tasks:   httpserver.NewTaskController(logger, taskService),
		Rewards: httpserver.NewRewardsController(logger, rewardsService),
		Profile: httpserver.NewProfileController(logger, profileService),
		Chat:    httpserver.NewChatController(logger, conversationService),
		Health:  httpserver.NewHealthController(monitoring, gateway),
		Gateway: gatewayController,
	})
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           router,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	// 7. Both ports are bound before anything serves, a busy port leaves nothing running
	httpListener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		stop()
		<-supervisorDone
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", httpServer.Addr, err)
	}
	grpcAddress := fmt.Sprintf("%s:%d", config.Host, config.GrpcPort)
	grpcListener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		_ = httpListener.Close()
		stop()
		<-supervisorDone
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}

	errChan := make(chan error, 2)
	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	grpcServer := healthServer.NewGrpcServer()
	go func() {
		logger.Info("Starting gRPC server", "address", grpcAddress)
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	code, runErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 9. Graceful shutdown: websockets and workers follow ctx
	logger.Info("Shutting down gracefully...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}
	grpcServer.GracefulStop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(ctx context.Context, config internal.Config, logger *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath).WithLogger(observability.NewBadgerLogger(logger))
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG).WithBypassLockGuard(true)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// ConversationMapper renders conversation records in the debug inspector.
func ConversationMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if !strings.HasPrefix(key, "conv:") {
		return row
	}

	var conversation domain.Conversation
	if err := json.Unmarshal(val, &conversation); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = "CONVERSATION"
	row.Detail = fmt.Sprintf("%s | %s | %d messages", conversation.UpdatedAt.Format(time.DateTime),
		strings.Join(conversation.Participants, " <> "), len(conversation.Messages))
	if conversation.LastMessage != nil {
		row.Detail += " | last: " + conversation.LastMessage.Content
	}
	return row
}
