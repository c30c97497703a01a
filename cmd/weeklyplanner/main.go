package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"weekly-planner/internal/bot"
	"weekly-planner/internal/config"
	"weekly-planner/internal/conversation"
	"weekly-planner/internal/logging"
	"weekly-planner/internal/repository"
	"weekly-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLog := newBootLogger(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogConsole)

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	telegramBot, err := bot.New(cfg.TelegramToken, logging.Component(log, "bot"))
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}

	reminders := service.NewReminderService(telegramBot, cfg.ReminderLead, cfg.DeliveryRate, logging.Component(log, "reminders"))
	if cfg.NotifyChatID != 0 {
		reminders.PinRecipient(cfg.NotifyChatID)
	}

	triggers := service.NewTriggerScheduler(cfg.ReminderLead, time.Local, reminders.Notify, logging.Component(log, "triggers"))
	chatSvc := service.NewChatService(repository.NewChatRepository(db), reminders, logging.Component(log, "chats"))
	if cfg.NotifyChatID == 0 {
		chatID, err := chatSvc.Restore(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("restore reminder recipient")
		} else if chatID != 0 {
			log.Info().Int64("chat_id", chatID).Msg("reminder recipient restored")
		}
	}

	taskRepo := repository.NewTaskRepository(db)
	taskSvc := service.NewTaskService(taskRepo, triggers, logging.Component(log, "tasks"))

	loaded, err := taskSvc.LoadTriggers(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load triggers")
	}
	log.Info().Int("tasks", loaded).Msg("triggers restored")

	scheduler := service.NewSchedulerService(time.Local, log)
	if _, err := scheduler.ScheduleInterval(cfg.TickInterval, func() {
		triggers.Tick(time.Now())
	}); err != nil {
		log.Fatal().Err(err).Msg("schedule ticks")
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := reminders.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("reminder worker stopped")
		}
	}()

	router := conversation.NewRouter(telegramBot, taskSvc, chatSvc, conversation.NewSessions(), logging.Component(log, "router"))

	log.Info().Dur("tick", cfg.TickInterval).Msg("Weekly planner bot started.")
	if err := telegramBot.Start(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot stopped with error")
	}
	log.Info().Int64("delivered", reminders.Delivered()).Int64("failed", reminders.Failures()).Msg("Shutdown complete.")
}

// newBootLogger logs failures that happen before the configured logger exists.
func newBootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("component", "boot").Logger()
}
