package main

import (
	"context"
	"net"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"promptify/api/internal/handle"
	"promptify/api/internal/httpserver"
	"promptify/api/internal/telegram"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, and the Telegram bot when TELEGRAM_BOT_TOKEN is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if port != "" {
				a.cfg.Port = port
			}

			ctx := cmd.Context()
			if err := a.openAccounts(ctx); err != nil {
				return err
			}

			opts := handle.Options{
				Auth:        a.auth,
				RequireAuth: a.cfg.RequireAuth,
				CORSOrigins: a.cfg.CORSOrigins,
				Log:         a.log.Named("http"),
			}
			if a.db != nil {
				opts.DB = a.db
			}
			h := handle.New(a.gen, opts)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return httpserver.Start(gctx, net.JoinHostPort("", a.cfg.Port), h.Router(), a.log)
			})
			if a.cfg.TelegramBotToken != "" {
				g.Go(func() error { return a.runBot(gctx) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run only the Telegram bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.runBot(cmd.Context())
		},
	}
}

func (a *app) runBot(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
	if err != nil {
		return err
	}
	bot.Debug = a.cfg.Debug
	log := a.log.Named("telegram")
	log.Info("bot authorized", zap.String("username", bot.Self.UserName))

	r := &telegram.Router{
		Bot:     bot,
		Gen:     a.gen,
		Engines: a.engines,
		Log:     log,
	}
	telegram.RunPolling(ctx, bot, log, func(upd tgbotapi.Update) {
		r.HandleUpdate(ctx, upd)
	})
	return nil
}
