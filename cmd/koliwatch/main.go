package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	charmlog "charm.land/log/v2"
	"github.com/koligo/koligo/client"
	"github.com/koligo/koligo/config"
	"github.com/koligo/koligo/livesync"
	"github.com/koligo/koligo/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))

	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Args) == 0 {
		return errors.New("missing command: chat, support, track or inbox")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.New(cfg.ServerURL)
	if err != nil {
		return err
	}

	c.Token = cfg.Token
	c.Websocket = cfg.Websocket
	c.DialTimeout = cfg.RequestTimeout
	c.Logger = logger

	if cfg.Username != "" {
		if _, err := c.DevLogin(ctx, types.DevLogin{Username: cfg.Username}); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	me, err := c.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetch logged in user: %w", err)
	}

	p := newPrinter(os.Stdout, me.ID)

	gw := livesync.NewGateway(c, me.ID, livesync.NotifierFunc(p.notice), logger)
	gw.Timeout = cfg.RequestTimeout

	w := &watcher{
		gateway:  gw,
		client:   c,
		printer:  p,
		maxItems: cfg.MaxItems,
		lines:    scanLines(os.Stdin),
	}

	cmd, args := cfg.Args[0], cfg.Args[1:]
	switch cmd {
	case "chat":
		if len(args) != 1 {
			return errors.New("usage: chat <conversation-id>")
		}
		return w.chat(ctx, args[0])
	case "support":
		return w.support(ctx, strings.Join(args, " "))
	case "track":
		if len(args) != 1 {
			return errors.New("usage: track <assignment-id>")
		}
		return w.track(ctx, args[0])
	case "inbox":
		return w.inbox(ctx)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

// scanLines reads lines in the background until EOF.
func scanLines(f *os.File) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		s := bufio.NewScanner(f)
		for s.Scan() {
			if line := strings.TrimSpace(s.Text()); line != "" {
				ch <- line
			}
		}
	}()
	return ch
}
