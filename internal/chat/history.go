package chat

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation held by the client.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ParseRole maps a wire role to a Role. The site widget labels model turns
// "ai"; anything that is not an assistant label is treated as the user.
func ParseRole(s string) Role {
	switch s {
	case "ai", "assistant":
		return RoleAssistant
	default:
		return RoleUser
	}
}

// Trim drops every turn before the first user turn. Upstream models reject
// conversations that open with an assistant message, and the widget seeds
// its log with a synthetic greeting. Returns nil when there is no user turn.
func Trim(turns []Turn) []Turn {
	for i, t := range turns {
		if t.Role == RoleUser {
			return turns[i:]
		}
	}
	return nil
}

// LogEntry is the write-only audit record of one chat exchange.
type LogEntry struct {
	ID          string
	UserMessage string
	AIReply     string
	LoggedAt    time.Time
}
