package model

import "time"

// RoleAdmin is the role name the backend assigns to moderators.
const RoleAdmin = "admin"

// Actor is the signed-in user performing an action.
type Actor struct {
	ID   string
	Name string
}

// User is a forum member as returned by the users collection.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Post is a forum thread starter.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a comment on a post; replies carry a ParentID.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"user_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the result of a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
