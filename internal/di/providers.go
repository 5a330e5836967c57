package di

import (
	"context"
	"log/slog"
	"os"

	"empathy-client/internal/adapter/discord"
	"empathy-client/internal/adapter/forum"
	"empathy-client/internal/adapter/session"
	"empathy-client/internal/config"
	"empathy-client/internal/domain/ports"
	"empathy-client/internal/gateway"
	"empathy-client/internal/notify"
)

func provideSlogLogger(cfg *config.Config) *slog.Logger {
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func provideTokenStore(cfg *config.Config, logger ports.Logger) (ports.TokenStore, func(), error) {
	if cfg.SessionBackend != config.SessionRedis {
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := session.Connect(context.Background(), cfg.RedisURL, cfg.RequestTimeout)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close redis client", "error", err)
		}
	}
	return session.NewRedisStore(client, cfg.SessionKey, cfg.SessionTTL), cleanup, nil
}

func provideGateway(cfg *config.Config, tokens ports.TokenStore, logger ports.Logger) (*gateway.Client, error) {
	return gateway.New(cfg.APIURL, tokens, logger,
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithMaxRetries(cfg.MaxRetries),
		gateway.WithBackoff(gateway.LinearBackoff{Interval: cfg.RetryDelay}),
		gateway.WithDebug(!cfg.Production()),
	)
}

func provideForum(api *gateway.Client, tokens ports.TokenStore, logger ports.Logger) ports.Forum {
	return forum.New(api, tokens, logger)
}

func provideNotifier(cfg *config.Config, f ports.Forum, logger ports.Logger) ports.ActivityNotifier {
	return notify.NewDispatcher(f, f, logger, notify.Config{
		BatchSize:  cfg.FanoutBatchSize,
		BatchPause: cfg.FanoutBatchPause,
	})
}

// provideReportSink returns an untyped nil when no webhook is configured.
func provideReportSink(cfg *config.Config, logger ports.Logger) ports.ReportSink {
	if cfg.DiscordWebhookURL == "" {
		return nil
	}
	return discord.NewWebhook(cfg.DiscordWebhookURL, cfg.RequestTimeout, logger)
}

func provideSchedule(cfg *config.Config) string {
	return cfg.AnnounceCron
}
