// Package llm provides the local-API (Ollama-compatible) request and response
// shapes served by the bridge, independent of the upstream wire format.
package llm

// ErrorResponse is the structured error envelope returned to local-API callers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrNoModels is the error text returned when model resolution finds nothing.
const ErrNoModels = "No models available"
