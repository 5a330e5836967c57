package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"empathy-client/internal/domain/model"
	"empathy-client/internal/domain/ports"
	"empathy-client/internal/gateway"
	"empathy-client/internal/richtext"
	"empathy-client/internal/usecase"
)

var ErrUsage = errors.New("usage: empathy <login|logout|show|publish|like|comment|reply|report|announce> [flags]")

const announceTimeout = 10 * time.Minute

// App dispatches CLI commands to the forum use cases.
type App struct {
	cron         *cron.Cron
	forum        ports.Forum
	interactions *usecase.Interactions
	announcement *usecase.Announcement
	logger       ports.Logger
	schedule     string
	out          io.Writer
}

// New constructs an App instance. schedule is the cron expression for announce; empty runs it once.
func New(forum ports.Forum, interactions *usecase.Interactions, announcement *usecase.Announcement, logger ports.Logger, schedule string) *App {
	return &App{
		cron:         cron.New(),
		forum:        forum,
		interactions: interactions,
		announcement: announcement,
		logger:       logger,
		schedule:     schedule,
		out:          os.Stdout,
	}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.forum.Logout(ctx)
	case "show":
		return a.show(ctx, rest)
	case "publish":
		return a.publish(ctx, rest)
	case "like":
		return a.like(ctx, rest)
	case "comment":
		return a.comment(ctx, rest)
	case "reply":
		return a.reply(ctx, rest)
	case "report":
		return a.report(ctx, rest)
	case "announce":
		return a.announce(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("EMPATHY_PASSWORD"), "account password (defaults to $EMPATHY_PASSWORD)")
	if err := parse(fs, args); err != nil {
		return err
	}

	sess, err := a.forum.Login(ctx, *email, *password)
	if err != nil {
		return userError("login", err)
	}
	fmt.Fprintf(a.out, "signed in as %s\n", sess.User.Username)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: empathy show <post-id>: %w", ErrUsage)
	}

	post, err := a.forum.GetPost(ctx, args[0])
	if err != nil {
		return userError("show", err)
	}
	fmt.Fprintf(a.out, "%s\n\n%s\n", post.Title, richtext.PlainText(post.Content))
	return nil
}

func (a *App) publish(ctx context.Context, args []string) error {
	fs := a.flags("publish")
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post body")
	if err := parse(fs, args); err != nil {
		return err
	}

	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	post, err := a.interactions.Publish(ctx, actor, *title, *content)
	if err != nil {
		return userError("publish", err)
	}
	fmt.Fprintf(a.out, "published post %s\n", post.ID)
	return nil
}

func (a *App) like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: empathy like <post-id>: %w", ErrUsage)
	}

	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	if err := a.interactions.Like(ctx, actor, args[0]); err != nil {
		return userError("like", err)
	}
	fmt.Fprintf(a.out, "liked post %s\n", args[0])
	return nil
}

func (a *App) comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: empathy comment <post-id> <text>: %w", ErrUsage)
	}

	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	comment, err := a.interactions.Comment(ctx, actor, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return userError("comment", err)
	}
	fmt.Fprintf(a.out, "added comment %s\n", comment.ID)
	return nil
}

func (a *App) reply(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: empathy reply <comment-id> <text>: %w", ErrUsage)
	}

	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	reply, err := a.interactions.Reply(ctx, actor, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return userError("reply", err)
	}
	fmt.Fprintf(a.out, "added reply %s\n", reply.ID)
	return nil
}

func (a *App) report(ctx context.Context, args []string) error {
	fs := a.flags("report")
	reason := fs.String("reason", "", "why the post breaks the rules")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: empathy report -reason <text> <post-id>: %w", ErrUsage)
	}

	actor, err := a.actor(ctx)
	if err != nil {
		return err
	}
	if err := a.interactions.Report(ctx, actor, fs.Arg(0), *reason); err != nil {
		return userError("report", err)
	}
	fmt.Fprintf(a.out, "reported post %s\n", fs.Arg(0))
	return nil
}

func (a *App) announce(ctx context.Context, args []string) error {
	fs := a.flags("announce")
	message := fs.String("message", "", "announcement text")
	if err := parse(fs, args); err != nil {
		return err
	}

	if a.schedule == "" {
		result, err := a.announcement.Run(ctx, *message)
		if err != nil {
			return userError("announce", err)
		}
		fmt.Fprintf(a.out, "announcement delivered to %d of %d users\n", result.Succeeded, result.Attempted)
		return nil
	}

	if err := a.scheduleAnnouncement(*message); err != nil {
		return err
	}

	a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
	a.cron.Start()

	<-ctx.Done()
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "scheduler stopped")
	return nil
}

func (a *App) scheduleAnnouncement(message string) error {
	if strings.TrimSpace(message) == "" {
		return usecase.ErrEmptyAnnouncement
	}
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
		defer cancel()
		if _, err := a.announcement.Run(ctx, message); err != nil {
			a.logger.Error(ctx, "scheduled announcement failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule announcement: %w", err)
	}
	return nil
}

func (a *App) actor(ctx context.Context) (model.Actor, error) {
	actor, err := a.interactions.CurrentActor(ctx)
	if err != nil {
		if gateway.StatusCode(err) == http.StatusUnauthorized {
			return model.Actor{}, errors.New("not signed in: run `empathy login` first")
		}
		return model.Actor{}, err
	}
	return actor, nil
}

// parse reports bad flags as usage errors and lets -h through untouched.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// userError prefers the backend's own explanation for rejected requests.
func userError(action string, err error) error {
	if errors.Is(err, gateway.ErrClientRejected) {
		return fmt.Errorf("%s: %s: %w", action, gateway.Message(err), err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
