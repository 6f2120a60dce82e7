package ai

// Conversation builds the two-message exchange sent for every question: a
// system prompt carrying the data followed by the user's input.
func Conversation(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
