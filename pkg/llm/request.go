package llm

// ChatRequest represents an /api/chat request (Ollama-compatible).
// Messages is required; every other field is optional.
type ChatRequest struct {
	Model    string    `json:"model,omitempty"`  // Empty selects the first upstream model
	Messages []Message `json:"messages"`         // Conversation history, oldest first
	Stream   *bool     `json:"stream,omitempty"` // Accepted for compatibility, responses are never streamed

	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`

	// Ollama-style generation options, used when the top-level fields are absent
	Options *Options `json:"options,omitempty"`
}

// Sampling returns the request's sampling parameters with defaults applied.
func (r *ChatRequest) Sampling() Sampling {
	return sampling(r.Temperature, r.MaxTokens, r.TopP, r.Options)
}

// GenerateRequest represents an /api/generate request (Ollama-compatible).
type GenerateRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream *bool  `json:"stream,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`

	Options *Options `json:"options,omitempty"`
}

// Sampling returns the request's sampling parameters with defaults applied.
func (r *GenerateRequest) Sampling() Sampling {
	return sampling(r.Temperature, r.MaxTokens, r.TopP, r.Options)
}

// Messages converts the prompt (and optional system prompt) into a conversation.
func (r *GenerateRequest) Messages() []Message {
	msgs := make([]Message, 0, 2)
	if r.System != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: r.System})
	}
	return append(msgs, Message{Role: RoleUser, Content: r.Prompt})
}
