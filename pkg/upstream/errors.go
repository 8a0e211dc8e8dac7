package upstream

import "fmt"

// Kind classifies a failed chat completion.
type Kind int

const (
	// KindOther covers transport failures, timeouts and anything unclassified.
	KindOther Kind = iota
	// KindAuth means the upstream rejected the configured credentials.
	KindAuth
	// KindAPI means the upstream answered with a non-auth error response.
	KindAPI
	// KindNoChoices means the upstream answered successfully with zero choices.
	KindNoChoices
)

// NoChoicesMessage is returned when an empty completion carries no error payload.
const NoChoicesMessage = "No choices returned from upstream API"

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindAPI:
		return "api"
	case KindNoChoices:
		return "no_choices"
	default:
		return "other"
	}
}

// Error is a classified upstream failure. Detail holds whatever the upstream
// said about it, if anything; Cause is the underlying error, if any.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

// Message renders the failure as the human-readable text that local-API
// callers receive in place of assistant content.
func (e *Error) Message() string {
	switch e.Kind {
	case KindAuth:
		return "Authentication error: the upstream API rejected the configured API key"
	case KindAPI:
		return fmt.Sprintf("Upstream API error: %s", e.Detail)
	case KindNoChoices:
		if e.Detail != "" {
			return e.Detail
		}
		return NoChoicesMessage
	default:
		return "An unexpected error occurred while contacting the upstream API"
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream %s error: %v", e.Kind, e.Cause)
	}
	if e.Detail != "" {
		return fmt.Sprintf("upstream %s error: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("upstream %s error", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
