// internal/models/chat.go
package models

// Role tags one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one prior message. The aggregator runs if and only if
// the history is empty.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound body of POST /api/chat.
type ChatRequest struct {
	Message string             `json:"message"`
	History []ConversationTurn `json:"history"`
}

// StreamEventType discriminates the relay's tagged union.
type StreamEventType string

const (
	EventFragment StreamEventType = "fragment"
	EventDone     StreamEventType = "done"
	EventError    StreamEventType = "error"
)

// StreamEvent is one unit of the response stream: an incremental text
// fragment, the terminal Done sentinel, or a terminal error.
type StreamEvent struct {
	Type StreamEventType
	Text string
}

func FragmentEvent(text string) StreamEvent {
	return StreamEvent{Type: EventFragment, Text: text}
}

func DoneEvent() StreamEvent {
	return StreamEvent{Type: EventDone}
}

func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Text: message}
}
