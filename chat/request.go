package chat

// Message roles understood by the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessages converts plain strings into user-role messages,
// preserving order.
func UserMessages(contents ...string) []Message {
	msgs := make([]Message, 0, len(contents))
	for _, content := range contents {
		msgs = append(msgs, Message{Role: RoleUser, Content: content})
	}
	return msgs
}

// Function describes a callable tool offered to the model.
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// buildPayload assembles the wire request body. The effective system
// prompt is prepended as a system message iff non-empty; user messages
// keep their input order. Pure data transform apart from reading the
// override stack snapshot.
func (c *Client) buildPayload(messages []Message, opts *Options, stream bool) (map[string]any, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	var o Options
	if opts != nil {
		o = *opts
	}

	payload := o.apiParams()

	wireMessages := make([]Message, 0, len(messages)+1)
	if prompt := c.resolvePrompt(o.SystemPrompt); prompt != "" {
		wireMessages = append(wireMessages, Message{Role: RoleSystem, Content: prompt})
	}
	wireMessages = append(wireMessages, messages...)

	// Azure names the deployment in the request path instead.
	if c.cfg.APIType != APITypeAzure {
		payload["model"] = c.cfg.Model
	}
	payload["messages"] = wireMessages
	payload["stream"] = stream

	return payload, nil
}
