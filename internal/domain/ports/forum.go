package ports

import (
	"context"

	"empathy-client/internal/domain/model"
)

// Forum is the set of backend operations the use cases orchestrate.
type Forum interface {
	UserDirectory
	NotificationCreator

	Login(ctx context.Context, email, password string) (*model.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	CreatePost(ctx context.Context, title, content string) (*model.Post, error)
	LikePost(ctx context.Context, id string) error
	AddComment(ctx context.Context, postID, content string) (*model.Comment, error)
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	ReplyToComment(ctx context.Context, commentID, content string) (*model.Comment, error)
	ReportPost(ctx context.Context, postID, reason string) error
}
