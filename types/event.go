package types

// EventColorCreated is the type of the event published after a post.
const EventColorCreated = "color.created"

// ColorCreatedEvent is the message body published for a new record.
type ColorCreatedEvent struct {
	Type   string      `json:"type"`
	Record ColorRecord `json:"record"`
}
