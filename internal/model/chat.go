package model

import "time"

// ChatRole identifies who authored a chat message.
type ChatRole string

// Chat roles.
const (
	RoleUser ChatRole = "user"
	RoleBot  ChatRole = "bot"
)

// ChatMessage is a single entry in a conversation transcript.
type ChatMessage struct {
	Timestamp time.Time `json:"timestamp"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
}
