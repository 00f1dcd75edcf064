// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chat

import "fmt"

// Conversation is an append-only message history. Messages strictly
// alternate between user and assistant, starting with user.
type Conversation struct {
	messages []Message
}

// NewConversation starts a conversation with a single user message.
func NewConversation(prompt string) *Conversation {
	return &Conversation{messages: []Message{{Role: RoleUser, Content: prompt}}}
}

// Append adds m to the end of the conversation. It rejects a message whose
// role would break the user/assistant alternation.
func (c *Conversation) Append(m Message) error {
	want := RoleUser
	if len(c.messages)%2 == 1 {
		want = RoleAssistant
	}
	if m.Role != want {
		return fmt.Errorf("message %d: role %q out of order, want %q", len(c.messages), m.Role, want)
	}
	c.messages = append(c.messages, m)
	return nil
}

// Messages returns a copy of the history in order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int { return len(c.messages) }
