package chat

// Response is a complete chat completion as returned by the API.
type Response struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one generated completion.
type Choice struct {
	Index        int           `json:"index"`
	Message      Message       `json:"message"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	FinishReason string        `json:"finish_reason"`
}

// FunctionCall is the model's request to invoke a function. Arguments is
// the raw JSON string produced by the model.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// First returns the content of the first choice.
func (r *Response) First() (string, error) {
	if len(r.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return r.Choices[0].Message.Content, nil
}

// Contents returns the content of every choice, in order.
func (r *Response) Contents() []string {
	contents := make([]string, 0, len(r.Choices))
	for _, choice := range r.Choices {
		contents = append(contents, choice.Message.Content)
	}
	return contents
}

// FirstChoice returns the first choice.
func (r *Response) FirstChoice() (*Choice, error) {
	if len(r.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &r.Choices[0], nil
}

// Chunk is one increment of a streamed completion.
type Chunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice is one choice's increment within a chunk.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason"`
}

// ChunkDelta carries the fields that changed in this increment. The
// first chunk of a choice typically sets Role; later chunks carry
// Content or FunctionCall fragments. Function-call deltas arrive
// piecewise: the name in one chunk, argument fragments in the rest.
type ChunkDelta struct {
	Role         string        `json:"role,omitempty"`
	Content      string        `json:"content,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// First returns the delta content of the chunk's first choice. Chunks
// without choices or content yield an empty string.
func (c *Chunk) First() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}
