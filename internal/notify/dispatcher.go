package notify

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"empathy-client/internal/domain/model"
	"empathy-client/internal/domain/ports"
)

const (
	DefaultBatchSize  = 10
	DefaultBatchPause = 500 * time.Millisecond
)

// Config tunes how wide a fan-out runs.
type Config struct {
	BatchSize  int
	BatchPause time.Duration
}

// Dispatcher turns a completed forum action into notification records for
// the other users involved. It never fails the triggering action: every
// per-recipient error is logged and reported in the returned FanoutResult.
type Dispatcher struct {
	creator   ports.NotificationCreator
	users     ports.UserDirectory
	logger    ports.Logger
	batchSize int
	pause     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

var _ ports.ActivityNotifier = (*Dispatcher)(nil)

// NewDispatcher constructs a Dispatcher. users is only needed for NewPost.
func NewDispatcher(creator ports.NotificationCreator, users ports.UserDirectory, logger ports.Logger, cfg Config) *Dispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = 0
	}
	return &Dispatcher{
		creator:   creator,
		users:     users,
		logger:    logger,
		batchSize: cfg.BatchSize,
		pause:     cfg.BatchPause,
		sleep:     sleepContext,
	}
}

// Like tells the post author that actor liked their post.
func (d *Dispatcher) Like(ctx context.Context, actor model.Actor, recipientID, postTitle string) model.FanoutResult {
	if recipientID == actor.ID {
		return model.FanoutResult{}
	}
	return d.fanout(ctx, actor, []string{recipientID}, model.EventLike, likeContent(actor.Name, postTitle))
}

// Comment tells the post author about a new comment.
func (d *Dispatcher) Comment(ctx context.Context, actor model.Actor, recipientID, postTitle, comment string) model.FanoutResult {
	if recipientID == actor.ID {
		return model.FanoutResult{}
	}
	return d.fanout(ctx, actor, []string{recipientID}, model.EventComment, commentContent(actor.Name, postTitle, comment))
}

// Reply tells a comment author about a reply.
func (d *Dispatcher) Reply(ctx context.Context, actor model.Actor, recipientID, reply string) model.FanoutResult {
	if recipientID == actor.ID {
		return model.FanoutResult{}
	}
	return d.fanout(ctx, actor, []string{recipientID}, model.EventReply, replyContent(actor.Name, reply))
}

// Report tells moderators that a post was reported.
func (d *Dispatcher) Report(ctx context.Context, actor model.Actor, recipientIDs []string, postTitle, reason string) model.FanoutResult {
	return d.fanout(ctx, actor, recipientIDs, model.EventReport, reportContent(actor.Name, postTitle, reason))
}

// NewPost tells every other user that actor published a post.
func (d *Dispatcher) NewPost(ctx context.Context, actor model.Actor, postTitle string) model.FanoutResult {
	recipients, err := d.everyone(ctx)
	if err != nil {
		d.logError(ctx, "list users for new post notification failed", "error", err)
		return model.FanoutResult{}
	}
	return d.fanout(ctx, actor, recipients, model.EventPost, postContent(actor.Name, postTitle))
}

// Broadcast sends an admin message to recipientIDs.
func (d *Dispatcher) Broadcast(ctx context.Context, actor model.Actor, recipientIDs []string, message string) model.FanoutResult {
	return d.fanout(ctx, actor, recipientIDs, model.EventSystem, broadcastContent(message))
}

func (d *Dispatcher) everyone(ctx context.Context) ([]string, error) {
	users, err := d.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (d *Dispatcher) fanout(ctx context.Context, actor model.Actor, recipients []string, eventType model.EventType, content string) model.FanoutResult {
	targets := excluding(actor.ID, recipients)
	if len(targets) == 0 {
		return model.FanoutResult{}
	}

	var result model.FanoutResult
	for start := 0; start < len(targets); start += d.batchSize {
		if start > 0 && d.pause > 0 {
			if err := d.sleep(ctx, d.pause); err != nil {
				result.Merge(abandoned(targets[start:], err))
				break
			}
		}
		end := min(start+d.batchSize, len(targets))
		result.Merge(d.sendBatch(ctx, targets[start:end], eventType, content))
	}

	if d.logger != nil {
		d.logger.Info(ctx, "notifications dispatched",
			"type", eventType,
			"attempted", result.Attempted,
			"succeeded", result.Succeeded,
			"failed", len(result.Failed))
	}
	return result
}

func (d *Dispatcher) sendBatch(ctx context.Context, batch []string, eventType model.EventType, content string) model.FanoutResult {
	errs := make([]error, len(batch))

	var g errgroup.Group
	for i, recipientID := range batch {
		g.Go(func() error {
			errs[i] = d.creator.CreateNotification(ctx, model.NotificationEvent{
				RecipientID: recipientID,
				Type:        eventType,
				Content:     content,
			})
			return nil
		})
	}
	_ = g.Wait()

	result := model.FanoutResult{Attempted: len(batch)}
	for i, err := range errs {
		if err != nil {
			d.logError(ctx, "create notification failed", "recipient", batch[i], "type", eventType, "error", err)
			result.Failed = append(result.Failed, model.RecipientFailure{RecipientID: batch[i], Err: err})
			continue
		}
		result.Succeeded++
	}
	return result
}

func (d *Dispatcher) logError(ctx context.Context, msg string, args ...any) {
	if d.logger != nil {
		d.logger.Error(ctx, msg, args...)
	}
}

// excluding drops the actor, blanks and duplicates while keeping order.
func excluding(actorID string, recipients []string) []string {
	out := make([]string, 0, len(recipients))
	seen := make(map[string]struct{}, len(recipients))
	for _, id := range recipients {
		if id == "" || id == actorID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func abandoned(recipients []string, err error) model.FanoutResult {
	result := model.FanoutResult{Attempted: len(recipients)}
	for _, id := range recipients {
		result.Failed = append(result.Failed, model.RecipientFailure{RecipientID: id, Err: err})
	}
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
