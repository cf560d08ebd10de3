package chat

// RoleUser marks a turn written by the player. Any other role is treated as
// the persona's side of the conversation.
const RoleUser = "user"

// Turn is a prior exchange supplied by the client with a chat request.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FromUser reports whether the turn was written by the player.
func (t Turn) FromUser() bool {
	return t.Role == RoleUser
}
