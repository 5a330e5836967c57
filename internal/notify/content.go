package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// Per-template bounds on embedded free text, in runes.
const (
	likeTitleLimit     = 50
	commentTitleLimit  = 30
	commentBodyLimit   = 100
	replyBodyLimit     = 100
	reportTitleLimit   = 50
	reportReasonLimit  = 100
	postTitleLimit     = 50
	broadcastBodyLimit = 200
)

// Truncate shortens s to limit runes and appends "..." when it was longer.
// Text at or under the limit is returned unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:limit]), isSpace) + ellipsis
}

func likeContent(actor, title string) string {
	return fmt.Sprintf("%s liked your post \"%s\"", actor, Truncate(title, likeTitleLimit))
}

func commentContent(actor, title, body string) string {
	return fmt.Sprintf("%s commented on \"%s\": %s", actor, Truncate(title, commentTitleLimit), Truncate(body, commentBodyLimit))
}

func replyContent(actor, body string) string {
	return fmt.Sprintf("%s replied to your comment: %s", actor, Truncate(body, replyBodyLimit))
}

func reportContent(actor, title, reason string) string {
	return fmt.Sprintf("%s reported the post \"%s\": %s", actor, Truncate(title, reportTitleLimit), Truncate(reason, reportReasonLimit))
}

func postContent(actor, title string) string {
	return fmt.Sprintf("%s published a new post: \"%s\"", actor, Truncate(title, postTitleLimit))
}

func broadcastContent(message string) string {
	return Truncate(message, broadcastBodyLimit)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
