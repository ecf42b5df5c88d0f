package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bugpen/bugpen/internal/blob"
	"github.com/bugpen/bugpen/internal/config"
	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/attachment"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/bugpen/bugpen/internal/identity"
	"github.com/bugpen/bugpen/internal/sqlite"
	"github.com/bugpen/bugpen/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	blobs, err := newBlobStore(cfg.Blob)
	if err != nil {
		logger.Error("failed to open blob store", "error", err)
		os.Exit(1)
	}

	verifier, err := newVerifier(cfg.Auth, logger)
	if err != nil {
		logger.Error("failed to configure authentication", "error", err)
		os.Exit(1)
	}

	userRepo := sqlite.NewUserRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	bugRepo := sqlite.NewBugRepository(db)
	tagRepo := sqlite.NewTagRepository(db)
	attachmentRepo := sqlite.NewAttachmentRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	userSvc := user.NewService(userRepo, logger)
	membershipSvc := membership.NewService(membershipRepo, activityRepo, logger)
	projectSvc := project.NewService(projectRepo, membershipRepo, attachmentRepo, blobs, logger)
	bugSvc := bug.NewService(bugRepo, projectRepo, membershipRepo, attachmentRepo, blobs, activityRepo, logger)
	tagSvc := tag.NewService(tagRepo, projectRepo, membershipRepo, bugRepo, activityRepo, logger)
	attachmentSvc := attachment.NewService(attachmentRepo, projectRepo, membershipRepo, bugRepo, blobs, activityRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	metrics := transport.NewMetrics()
	router := transport.NewServer(transport.Services{
		Users:       userSvc,
		Projects:    projectSvc,
		Memberships: membershipSvc,
		Bugs:        bugSvc,
		Tags:        tagSvc,
		Attachments: attachmentSvc,
		Activities:  activitySvc,
	}, transport.AuthMiddleware(verifier, userSvc), metrics, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func newBlobStore(cfg config.BlobConfig) (blob.Store, error) {
	switch cfg.Backend {
	case "", "fs":
		return blob.NewFSStore(cfg.FS.Dir)
	case "s3":
		return blob.NewS3Store(context.Background(), blob.S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// newVerifier builds the token verifier. Dev mode accepts a single
// local token and must be enabled explicitly.
func newVerifier(cfg config.AuthConfig, logger *slog.Logger) (identity.Verifier, error) {
	if cfg.Issuer != "" {
		return identity.NewOIDCVerifier(context.Background(), cfg.Issuer, cfg.Audience)
	}
	if !cfg.DevMode {
		return nil, fmt.Errorf("no OIDC issuer configured and dev mode is off")
	}
	logger.Warn("running with dev-mode authentication")
	return identity.NewStaticVerifier(map[string]identity.Claims{
		"dev-token": {Subject: "dev|local", Name: "Local Developer"},
	}), nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
