package llm

import "time"

// DoneReasonStop is the only completion reason the bridge reports.
const DoneReasonStop = "stop"

// ChatResponse represents a non-streaming /api/chat response (Ollama-compatible).
type ChatResponse struct {
	Model      string    `json:"model"`       // Model that generated the response
	CreatedAt  time.Time `json:"created_at"`  // Response timestamp
	Message    Message   `json:"message"`     // The assistant's response
	DoneReason string    `json:"done_reason"` // Always "stop"
	Done       bool      `json:"done"`        // Always true
	Stream     bool      `json:"stream"`      // Always false
}

// NewChatResponse wraps assistant content into the fixed chat envelope.
func NewChatResponse(model, content string, createdAt time.Time) ChatResponse {
	return ChatResponse{
		Model:      model,
		CreatedAt:  createdAt,
		Message:    Message{Role: RoleAssistant, Content: content},
		DoneReason: DoneReasonStop,
		Done:       true,
		Stream:     false,
	}
}

// GenerateResponse represents a non-streaming /api/generate response.
type GenerateResponse struct {
	Model      string    `json:"model"`
	CreatedAt  time.Time `json:"created_at"`
	Response   string    `json:"response"`
	DoneReason string    `json:"done_reason"`
	Done       bool      `json:"done"`
}

// NewGenerateResponse wraps completion text into the fixed generate envelope.
func NewGenerateResponse(model, content string, createdAt time.Time) GenerateResponse {
	return GenerateResponse{
		Model:      model,
		CreatedAt:  createdAt,
		Response:   content,
		DoneReason: DoneReasonStop,
		Done:       true,
	}
}
