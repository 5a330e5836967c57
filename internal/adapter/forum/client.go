package forum

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"empathy-client/internal/domain/model"
	"empathy-client/internal/domain/ports"
	"empathy-client/internal/gateway"
)

const (
	usersPageSize = 100
	maxUserPages  = 1000
)

// Requester is the part of gateway.Client the adapter needs.
type Requester interface {
	Do(ctx context.Context, method, path string, body any, opts ...gateway.RequestOption) (*gateway.Response, error)
}

// Client implements ports.Forum on top of the REST backend.
type Client struct {
	api    Requester
	tokens ports.TokenStore
	logger ports.Logger
}

var _ ports.Forum = (*Client)(nil)

// New creates a forum client. tokens receives the credential on Login.
func New(api Requester, tokens ports.TokenStore, logger ports.Logger) *Client {
	return &Client{api: api, tokens: tokens, logger: logger}
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidArgument)
	}

	resp, err := c.api.Do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	sess, _, err := decode[model.Session](resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if sess.Token == "" {
		return nil, ErrMissingCredential
	}

	if c.tokens != nil {
		if err := c.tokens.SetToken(ctx, sess.Token); err != nil {
			return nil, fmt.Errorf("store session token: %w", err)
		}
	}
	return sess, nil
}

// Logout drops the stored credential.
func (c *Client) Logout(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	if err := c.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the user the stored credential belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	resp, err := c.api.Do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	user, _, err := decode[model.User](resp)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// ListUsers walks every page of the users collection.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	for page := 1; page <= maxUserPages; page++ {
		resp, err := c.api.Do(ctx, http.MethodGet, "/users", nil, gateway.WithQuery(url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(usersPageSize)},
		}))
		if err != nil {
			return nil, fmt.Errorf("list users page %d: %w", page, err)
		}

		batch, pagination, err := decode[[]model.User](resp)
		if err != nil {
			return nil, fmt.Errorf("list users page %d: %w", page, err)
		}
		users = append(users, *batch...)

		if pagination == nil || page >= pagination.TotalPages || len(*batch) == 0 {
			return users, nil
		}
	}

	if c.logger != nil {
		c.logger.Warn(ctx, "user listing truncated", "pages", maxUserPages, "users", len(users))
	}
	return users, nil
}

// GetPost fetches a post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: post id is required", ErrInvalidArgument)
	}
	resp, err := c.api.Do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	post, _, err := decode[model.Post](resp)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// CreatePost publishes a new post as the signed-in user.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*model.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	resp, err := c.api.Do(ctx, http.MethodPost, "/posts", map[string]string{
		"title":   title,
		"content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post, _, err := decode[model.Post](resp)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// LikePost records a like from the signed-in user.
func (c *Client) LikePost(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: post id is required", ErrInvalidArgument)
	}
	if _, err := c.api.Do(ctx, http.MethodPost, "/posts/"+url.PathEscape(id)+"/likes", nil); err != nil {
		return fmt.Errorf("like post %s: %w", id, err)
	}
	return nil
}

// AddComment comments on a post.
func (c *Client) AddComment(ctx context.Context, postID, content string) (*model.Comment, error) {
	if postID == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: post id and content are required", ErrInvalidArgument)
	}
	resp, err := c.api.Do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", map[string]string{
		"content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("add comment to %s: %w", postID, err)
	}
	comment, _, err := decode[model.Comment](resp)
	if err != nil {
		return nil, fmt.Errorf("add comment to %s: %w", postID, err)
	}
	return comment, nil
}

// GetComment fetches a comment by id.
func (c *Client) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: comment id is required", ErrInvalidArgument)
	}
	resp, err := c.api.Do(ctx, http.MethodGet, "/comments/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	comment, _, err := decode[model.Comment](resp)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	return comment, nil
}

// ReplyToComment posts a reply under a comment.
func (c *Client) ReplyToComment(ctx context.Context, commentID, content string) (*model.Comment, error) {
	if commentID == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment id and content are required", ErrInvalidArgument)
	}
	resp, err := c.api.Do(ctx, http.MethodPost, "/comments/"+url.PathEscape(commentID)+"/replies", map[string]string{
		"content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("reply to %s: %w", commentID, err)
	}
	reply, _, err := decode[model.Comment](resp)
	if err != nil {
		return nil, fmt.Errorf("reply to %s: %w", commentID, err)
	}
	return reply, nil
}

// ReportPost flags a post for moderation.
func (c *Client) ReportPost(ctx context.Context, postID, reason string) error {
	if postID == "" || strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: post id and reason are required", ErrInvalidArgument)
	}
	if _, err := c.api.Do(ctx, http.MethodPost, "/reports", map[string]string{
		"post_id": postID,
		"reason":  reason,
	}); err != nil {
		return fmt.Errorf("report post %s: %w", postID, err)
	}
	return nil
}

// CreateNotification creates one notification record for event.RecipientID.
func (c *Client) CreateNotification(ctx context.Context, event model.NotificationEvent) error {
	if event.RecipientID == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidArgument)
	}
	if !event.Type.Valid() {
		return fmt.Errorf("%w: unknown notification type %q", ErrInvalidArgument, event.Type)
	}
	if _, err := c.api.Do(ctx, http.MethodPost, "/notifications", map[string]string{
		"user_id": event.RecipientID,
		"type":    string(event.Type),
		"content": event.Content,
	}); err != nil {
		return fmt.Errorf("create notification for %s: %w", event.RecipientID, err)
	}
	return nil
}
