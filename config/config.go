package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

type Config struct {
	CockroachURL      string        `ff:"long: cockroach-url, default: postgresql://root@127.0.0.1:26257/defaultdb?sslmode=disable, usage: URL for the CockroachDB database"`
	Port              uint32        `ff:"long: port, short: p, default: 4000, usage: Port for the HTTP server"`
	PublicURL         string        `ff:"long: public-url, default: http://localhost:4000, usage: Public URL of the HTTP server"`
	TokenKey          string        `ff:"long: token-key, default: supersecretkeyyoushouldnotcommit, usage: 32 bytes key to sign auth tokens"`
	TokenTTL          time.Duration `ff:"long: token-ttl, default: 336h, usage: Lifetime of auth tokens"`
	DevLogin          bool          `ff:"long: dev-login, default: false, usage: Enable passwordless login by username"`
	Admins            string        `ff:"long: admins, usage: Comma separated usernames that get the admin role"`
	NATSURL           string        `ff:"long: nats-url, usage: NATS server URL (in-memory broker when empty)"`
	MinioEndpoint     string        `ff:"long: minio-endpoint, default: localhost:9000, usage: MinIO endpoint"`
	MinioAccessKey    string        `ff:"long: minio-access-key, default: minioadmin, usage: MinIO access key"`
	MinioSecretKey    string        `ff:"long: minio-secret-key, default: minioadmin, usage: MinIO secret key"`
	MinioSecure       bool          `ff:"long: minio-secure, default: false, usage: Use secure connection to MinIO"`
	MinioPublicURL    string        `ff:"long: minio-public-url, default: http://localhost:9000, usage: Public base URL for MinIO objects"`
	CleanupTimeout    time.Duration `ff:"long: cleanup-timeout, default: 5s, usage: Timeout for background cleanup operations"`
	BackgroundTimeout time.Duration `ff:"long: background-timeout, default: 15s, usage: Timeout for background fan-out work"`
	VAPIDPublicKey    string        `ff:"long: vapid-public-key, usage: VAPID public key for web push"`
	VAPIDPrivateKey   string        `ff:"long: vapid-private-key, usage: VAPID private key for web push"`
	ResendAPIKey      string        `ff:"long: resend-api-key, usage: Resend API key for notification emails"`
	MailFrom          string        `ff:"long: mail-from, default: noreply@koligo.app, usage: Sender address of notification emails"`
}

// AdminUsernames splits the admins list.
func (cfg Config) AdminUsernames() []string {
	var out []string
	for s := range strings.SplitSeq(cfg.Admins, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := ff.NewFlagSetFrom("koligo", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("KOLIGO"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		os.Exit(0)
	}

	return cfg, err
}
