package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/status"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	log, closer := logger.New(cfg, os.Stdout)
	defer closer.Close()
	mainLogger := log.WithField("component", "main")

	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"schedule":    cfg.PollSchedule,
		"chat_id":     cfg.TelegramChatID,
	}).Info("Configuration loaded")

	if err := run(cfg, log); err != nil {
		mainLogger.WithError(err).Error("Application stopped with an error")
		closer.Close()
		os.Exit(1)
	}
	mainLogger.Info("Application shut down gracefully")
}

func run(cfg *config.AppConfig, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schedule, err := scheduler.Parse(cfg.PollSchedule)
	if err != nil {
		return err
	}

	source := practicum.NewClient(
		cfg.PracticumAPIURL,
		cfg.PracticumToken,
		log.WithField("component", "practicum"),
		practicum.WithTimeout(cfg.HTTPTimeout),
	)

	// Offline: no getMe at startup, so an unreachable API never stops the process.
	bot, err := telegram.NewBot(telegram.BotSettings{Token: cfg.TelegramToken, Offline: true}, log.WithField("component", "telebot"))
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}
	notifier := telegram.NewTelebotAdapter(bot, cfg.TelegramChatID)

	poller := app.NewPoller(
		source,
		notifier,
		schedule,
		cfg.RetryCooldown,
		log.WithField("component", "poller"),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(gctx) })

	// Side channels below never fail the group; only the poller matters.
	if cfg.StatusAddr != "" {
		srv := status.NewServer(cfg.StatusAddr, poller.Status(), log.WithField("component", "status"))
		g.Go(func() error { return srv.Run(gctx) })
	}

	if cfg.EnableBotCommands {
		commandsLogger := log.WithField("component", "commands")
		g.Go(func() error {
			// Commands need an online bot; keep retrying getMe while polling runs.
			cmdBot, err := telegram.ConnectBot(gctx, telegram.BotSettings{Token: cfg.TelegramToken}, cfg.RetryCooldown, commandsLogger)
			if err != nil {
				return nil // shutting down
			}
			telegram.RegisterBotCommands(cmdBot, cfg.TelegramChatID, poller.Status(), commandsLogger)

			go func() {
				<-gctx.Done()
				cmdBot.Stop()
			}()
			cmdBot.Start() // blocks until Stop
			return nil
		})
	}

	return g.Wait()
}
