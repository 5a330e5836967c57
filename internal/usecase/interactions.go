package usecase

import (
	"context"
	"fmt"

	"empathy-client/internal/domain/model"
	"empathy-client/internal/domain/ports"
)

// Interactions runs the forum's primary user actions and, once an action
// succeeds, fans notifications out to the affected users. A failed fan-out
// never turns a successful action into an error.
type Interactions struct {
	forum    ports.Forum
	notifier ports.ActivityNotifier
	logger   ports.Logger
}

// NewInteractions constructs the Interactions use case.
func NewInteractions(forum ports.Forum, notifier ports.ActivityNotifier, logger ports.Logger) *Interactions {
	return &Interactions{forum: forum, notifier: notifier, logger: logger}
}

// CurrentActor resolves the signed-in user.
func (i *Interactions) CurrentActor(ctx context.Context) (model.Actor, error) {
	me, err := i.forum.Me(ctx)
	if err != nil {
		return model.Actor{}, fmt.Errorf("resolve current user: %w", err)
	}
	return actorOf(*me), nil
}

// Publish creates a post and announces it to every other member.
func (i *Interactions) Publish(ctx context.Context, actor model.Actor, title, content string) (*model.Post, error) {
	post, err := i.forum.CreatePost(ctx, title, content)
	if err != nil {
		i.logger.Error(ctx, "publish failed", "error", err)
		return nil, err
	}

	i.record(ctx, "post", i.notifier.NewPost(ctx, actor, post.Title))
	return post, nil
}

// Like likes a post and tells its author.
func (i *Interactions) Like(ctx context.Context, actor model.Actor, postID string) error {
	if err := i.forum.LikePost(ctx, postID); err != nil {
		i.logger.Error(ctx, "like failed", "post", postID, "error", err)
		return err
	}

	post, err := i.forum.GetPost(ctx, postID)
	if err != nil {
		i.logger.Warn(ctx, "skip like notification", "post", postID, "error", err)
		return nil
	}
	i.record(ctx, "like", i.notifier.Like(ctx, actor, post.AuthorID, post.Title))
	return nil
}

// Comment adds a comment to a post and tells the post author.
func (i *Interactions) Comment(ctx context.Context, actor model.Actor, postID, body string) (*model.Comment, error) {
	comment, err := i.forum.AddComment(ctx, postID, body)
	if err != nil {
		i.logger.Error(ctx, "comment failed", "post", postID, "error", err)
		return nil, err
	}

	post, err := i.forum.GetPost(ctx, postID)
	if err != nil {
		i.logger.Warn(ctx, "skip comment notification", "post", postID, "error", err)
		return comment, nil
	}
	i.record(ctx, "comment", i.notifier.Comment(ctx, actor, post.AuthorID, post.Title, body))
	return comment, nil
}

// Reply answers a comment and tells the comment author.
func (i *Interactions) Reply(ctx context.Context, actor model.Actor, commentID, body string) (*model.Comment, error) {
	reply, err := i.forum.ReplyToComment(ctx, commentID, body)
	if err != nil {
		i.logger.Error(ctx, "reply failed", "comment", commentID, "error", err)
		return nil, err
	}

	parent, err := i.forum.GetComment(ctx, commentID)
	if err != nil {
		i.logger.Warn(ctx, "skip reply notification", "comment", commentID, "error", err)
		return reply, nil
	}
	i.record(ctx, "reply", i.notifier.Reply(ctx, actor, parent.AuthorID, body))
	return reply, nil
}

// Report flags a post and alerts the moderators.
func (i *Interactions) Report(ctx context.Context, actor model.Actor, postID, reason string) error {
	if err := i.forum.ReportPost(ctx, postID, reason); err != nil {
		i.logger.Error(ctx, "report failed", "post", postID, "error", err)
		return err
	}

	users, err := i.forum.ListUsers(ctx)
	if err != nil {
		i.logger.Warn(ctx, "skip report notification", "post", postID, "error", err)
		return nil
	}

	title := postID
	if post, err := i.forum.GetPost(ctx, postID); err == nil {
		title = post.Title
	}

	i.record(ctx, "report", i.notifier.Report(ctx, actor, admins(users), title, reason))
	return nil
}

func (i *Interactions) record(ctx context.Context, action string, result model.FanoutResult) {
	if len(result.Failed) > 0 {
		i.logger.Warn(ctx, "some notifications were not delivered",
			"action", action,
			"attempted", result.Attempted,
			"failed", len(result.Failed))
	}
}

func admins(users []model.User) []string {
	ids := make([]string, 0)
	for _, u := range users {
		if u.Role == model.RoleAdmin {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func actorOf(u model.User) model.Actor {
	name := u.Username
	if name == "" {
		name = "Someone"
	}
	return model.Actor{ID: u.ID, Name: name}
}
