package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/koligo/koligo/auth"
	"github.com/koligo/koligo/cockroach"
	"github.com/koligo/koligo/mailing"
	"github.com/koligo/koligo/metrics"
	"github.com/koligo/koligo/minio"
	"github.com/koligo/koligo/pubsub"
)

type Config struct {
	Cockroach         *cockroach.Cockroach
	Minio             *minio.Minio
	PubSub            pubsub.PubSub
	Mailer            mailing.Sender
	Tokens            *auth.Tokens
	Metrics           *metrics.Metrics
	Logger            *slog.Logger
	BaseCtx           context.Context
	BackgroundTimeout time.Duration
	PublicURL         string
	DevLogin          bool
	AdminUsernames    []string
	WebPush           WebPushConfig
}

type WebPushConfig struct {
	Subscriber      string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

func (c WebPushConfig) Enabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

type Service struct {
	Cockroach *cockroach.Cockroach
	Minio     *minio.Minio
	PubSub    pubsub.PubSub
	Mailer    mailing.Sender
	Tokens    *auth.Tokens
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	publicURL         string
	devLogin          bool
	adminUsernames    map[string]struct{}
	webPush           WebPushConfig
	baseCtx           context.Context
	backgroundTimeout time.Duration
	wg                sync.WaitGroup
	errs              chan error
}

func New(cfg *Config) *Service {
	admins := make(map[string]struct{}, len(cfg.AdminUsernames))
	for _, username := range cfg.AdminUsernames {
		admins[username] = struct{}{}
	}

	return &Service{
		Cockroach: cfg.Cockroach,
		Minio:     cfg.Minio,
		PubSub:    cfg.PubSub,
		Mailer:    cfg.Mailer,
		Tokens:    cfg.Tokens,
		Metrics:   cfg.Metrics,
		Logger:    cfg.Logger,

		publicURL:         cfg.PublicURL,
		devLogin:          cfg.DevLogin,
		adminUsernames:    admins,
		webPush:           cfg.WebPush,
		baseCtx:           cfg.BaseCtx,
		backgroundTimeout: cfg.BackgroundTimeout,
		errs:              make(chan error, 1),
	}
}

func (svc *Service) Errs() <-chan error {
	return svc.errs
}

func (svc *Service) Close() error {
	svc.wg.Wait()
	close(svc.errs)
	return nil
}

func (svc *Service) background(fn func(ctx context.Context) error) {
	svc.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				svc.Metrics.BackgroundFailures.Inc()
				select {
				case svc.errs <- fmt.Errorf("service background panic: %v", rcv):
				default:
				}
			}
		}()

		ctx, cancel := context.WithTimeout(svc.baseCtx, svc.backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			svc.Metrics.BackgroundFailures.Inc()
			select {
			case svc.errs <- fmt.Errorf("service background error: %w", err):
			default:
			}
		}
	})
}
