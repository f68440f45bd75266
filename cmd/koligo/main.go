package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "charm.land/log/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/cockroach"
	"github.com/koligo/koligo/cockroach/migrator"
	"github.com/koligo/koligo/config"
	"github.com/koligo/koligo/mailing"
	"github.com/koligo/koligo/metrics"
	koligominio "github.com/koligo/koligo/minio"
	"github.com/koligo/koligo/pubsub"
	"github.com/koligo/koligo/service"
	transport "github.com/koligo/koligo/transport/http"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nats-io/nats.go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	errLogger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))
	infoLogger := slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := pgxpool.New(context.Background(), cfg.CockroachURL)
	if err != nil {
		return fmt.Errorf("open cockroach connection pool: %w", err)
	}

	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		return fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	infoLogger.Info("starting cockroach migrations")

	if err := migrator.Migrate(context.Background(), dbPool, cockroach.MigrationsFS); err != nil {
		return fmt.Errorf("migrate cockroach schema: %w", err)
	}

	infoLogger.Info("finished cockroach migrations", "took", time.Since(migrationStart))

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	minioPublicURL, err := url.Parse(cfg.MinioPublicURL)
	if err != nil {
		return fmt.Errorf("parse minio public url: %w", err)
	}

	minio := koligominio.New(context.Background(), minioClient, minioPublicURL, cfg.CleanupTimeout)
	go func() {
		for err := range minio.Errs() {
			errLogger.Error("minio error", "error", err)
		}
	}()

	bucketsStart := time.Now()
	infoLogger.Info("creating minio buckets")

	for _, bucket := range []string{koligominio.BucketMessageImages, koligominio.BucketTrackingPhotos} {
		if err := minio.CreateReadOnlyBucket(context.Background(), bucket); err != nil {
			return fmt.Errorf("create minio bucket %q: %w", bucket, err)
		}
	}

	infoLogger.Info("finished creating minio buckets", "took", time.Since(bucketsStart))

	var ps pubsub.PubSub
	if cfg.NATSURL != "" {
		natsConn, err := nats.Connect(cfg.NATSURL, nats.Name("koligo"))
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}

		defer natsConn.Drain()

		ps = &pubsub.NATS{Conn: natsConn}
		infoLogger.Info("using nats broker", "url", cfg.NATSURL)
	} else {
		ps = pubsub.NewMemory()
		infoLogger.Info("using in-memory broker")
	}

	var mailer mailing.Sender
	if cfg.ResendAPIKey != "" {
		mailer = mailing.NewResend(cfg.MailFrom, cfg.ResendAPIKey)
	} else {
		mailer = &mailing.Log{Logger: infoLogger}
	}

	tokens, err := auth.NewTokens(cfg.TokenKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("create token codec: %w", err)
	}

	m := metrics.New()

	svc := service.New(&service.Config{
		Cockroach:         cockroach.New(dbPool),
		Minio:             minio,
		PubSub:            ps,
		Mailer:            mailer,
		Tokens:            tokens,
		Metrics:           m,
		Logger:            errLogger,
		BaseCtx:           context.Background(),
		BackgroundTimeout: cfg.BackgroundTimeout,
		PublicURL:         cfg.PublicURL,
		DevLogin:          cfg.DevLogin,
		AdminUsernames:    cfg.AdminUsernames(),
		WebPush: service.WebPushConfig{
			Subscriber:      cfg.MailFrom,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		},
	})
	go func() {
		for err := range svc.Errs() {
			errLogger.Error("service error", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           transport.New(svc, errLogger, m),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			errLogger.Error("could not shutdown server", "error", err)
		}
	}()

	infoLogger.Info("starting koligo server", "url", cfg.PublicURL, "dev_login", cfg.DevLogin)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start koligo server: %w", err)
	}

	return svc.Close()
}
