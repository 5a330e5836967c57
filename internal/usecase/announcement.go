package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"empathy-client/internal/domain/model"
	"empathy-client/internal/domain/ports"
)

var ErrEmptyAnnouncement = errors.New("announcement message is empty")

// Announcement is the admin broadcast: one system notification to every member.
type Announcement struct {
	forum    ports.Forum
	notifier ports.ActivityNotifier
	sink     ports.ReportSink
	logger   ports.Logger
}

// NewAnnouncement constructs the use case. sink may be nil.
func NewAnnouncement(forum ports.Forum, notifier ports.ActivityNotifier, sink ports.ReportSink, logger ports.Logger) *Announcement {
	return &Announcement{forum: forum, notifier: notifier, sink: sink, logger: logger}
}

// Run broadcasts message on behalf of the signed-in admin.
func (a *Announcement) Run(ctx context.Context, message string) (model.FanoutResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.FanoutResult{}, ErrEmptyAnnouncement
	}

	start := time.Now()
	a.logger.Info(ctx, "starting announcement broadcast")

	me, err := a.forum.Me(ctx)
	if err != nil {
		return model.FanoutResult{}, fmt.Errorf("resolve current user: %w", err)
	}

	users, err := a.forum.ListUsers(ctx)
	if err != nil {
		a.logger.Error(ctx, "failed to list users", "error", err)
		return model.FanoutResult{}, fmt.Errorf("list users: %w", err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	result := a.notifier.Broadcast(ctx, actorOf(*me), ids, message)
	a.logger.Info(ctx, "announcement broadcast completed",
		"recipients", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", len(result.Failed),
		"duration", time.Since(start))

	if a.sink != nil {
		if err := a.sink.Report(ctx, "Announcement delivered", result); err != nil {
			a.logger.Error(ctx, "failed to send broadcast report", "error", err)
		}
	}
	return result, nil
}
