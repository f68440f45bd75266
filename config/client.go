package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

type ClientConfig struct {
	ServerURL      string        `ff:"long: server-url, default: http://localhost:4000, usage: KoliGo server URL"`
	Token          string        `ff:"long: token, usage: Auth token"`
	Username       string        `ff:"long: username, short: u, usage: Login by username when the server has dev login enabled"`
	Websocket      bool          `ff:"long: websocket, default: false, usage: Use the websocket change-feed instead of SSE"`
	RequestTimeout time.Duration `ff:"long: request-timeout, default: 15s, usage: Timeout for each backend call"`
	MaxItems       int           `ff:"long: max-items, default: 500, usage: Max items kept in memory per list"`

	Args []string
}

func LoadClient() (ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	fs := ff.NewFlagSetFrom("koliwatch", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("KOLIWATCH"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		fmt.Println("COMMANDS\n  chat <conversation-id>\n  support\n  track <assignment-id>\n  inbox")
		os.Exit(0)
	}

	if err != nil {
		return cfg, err
	}

	cfg.Args = fs.GetArgs()

	return cfg, nil
}
