package ports

import (
	"context"

	"empathy-client/internal/domain/model"
)

// NotificationCreator creates a single notification record on the backend.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, event model.NotificationEvent) error
}

// UserDirectory lists forum members.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

// ReportSink receives a summary of a finished broadcast (e.g. an ops channel).
type ReportSink interface {
	Report(ctx context.Context, title string, result model.FanoutResult) error
}

// ActivityNotifier fans a completed forum action out to the affected users.
// Implementations report partial failure in the result instead of an error.
type ActivityNotifier interface {
	Like(ctx context.Context, actor model.Actor, recipientID, postTitle string) model.FanoutResult
	Comment(ctx context.Context, actor model.Actor, recipientID, postTitle, comment string) model.FanoutResult
	Reply(ctx context.Context, actor model.Actor, recipientID, reply string) model.FanoutResult
	Report(ctx context.Context, actor model.Actor, recipientIDs []string, postTitle, reason string) model.FanoutResult
	NewPost(ctx context.Context, actor model.Actor, postTitle string) model.FanoutResult
	Broadcast(ctx context.Context, actor model.Actor, recipientIDs []string, message string) model.FanoutResult
}
