package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/mailservice"
	"github.com/sushihentaime/quillpost/internal/mediaservice"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	db             *sql.DB
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	mediaService   *mediaservice.MediaService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
	// memoryStore is set when uploads are kept in process, the server then serves them under /media/.
	memoryStore *mediaservice.MemoryStore
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(common.DBConfig{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Name:         cfg.DBName,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxIdleTime:  15 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupUserExchange(broker)
	if err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		broker: broker,
	}

	store, err := app.objectStore()
	if err != nil {
		logger.Error("failed to setup the object store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)

	app.mediaService = mediaservice.NewMediaService(store)
	app.userService = userservice.NewUserService(db, broker, cache, logger)
	app.blogService = blogservice.NewBlogService(db, cache, app.mediaService, logger)
	app.commentService = commentservice.NewCommentService(db, cache)
	app.mailService, err = mailservice.NewMailService(broker, mailservice.SMTPConfig{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUser,
		Password: cfg.MailPassword,
		Sender:   cfg.MailSender,
	}, logger)
	if err != nil {
		logger.Error("failed to load mail templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app.mailService.SendWelcomeEmail()
	defer app.mailService.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.serve(ctx)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// objectStore connects to MinIO, or falls back to an in-memory store outside production.
func (app *application) objectStore() (mediaservice.ObjectStore, error) {
	cfg := app.config

	if cfg.MinioEndpoint == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("MINIO_ENDPOINT must be set in production")
		}

		app.logger.Warn("MINIO_ENDPOINT not set, keeping uploads in memory")
		app.memoryStore = mediaservice.NewMemoryStore("http://localhost:"+cfg.Port, "media")
		return app.memoryStore, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return mediaservice.NewMinioStore(ctx, mediaservice.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
}
