package models

// ChatRole distinguishes the two sides of the follow-up conversation.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in the follow-up conversation about the
// currently displayed result.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
