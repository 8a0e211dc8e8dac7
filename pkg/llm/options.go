package llm

// Options contains the Ollama-style model parameters that map onto the
// upstream sampling fields. Other Ollama options are accepted and ignored.
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"` // Creativity (0.0-2.0)
	TopP        *float64 `json:"top_p,omitempty"`       // Nucleus sampling threshold
	NumPredict  *int     `json:"num_predict,omitempty"` // Max tokens to generate
}

// Sampling defaults applied when neither the top-level field nor Options set a value.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
	DefaultTopP        = 1.0
)

// Sampling is the fully resolved set of upstream sampling parameters.
type Sampling struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// sampling resolves parameters with precedence: top-level field, then
// Options, then the package default.
func sampling(temperature *float64, maxTokens *int, topP *float64, opts *Options) Sampling {
	s := Sampling{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
	}

	if opts != nil {
		if opts.Temperature != nil {
			s.Temperature = *opts.Temperature
		}
		if opts.NumPredict != nil {
			s.MaxTokens = *opts.NumPredict
		}
		if opts.TopP != nil {
			s.TopP = *opts.TopP
		}
	}

	if temperature != nil {
		s.Temperature = *temperature
	}
	if maxTokens != nil {
		s.MaxTokens = *maxTokens
	}
	if topP != nil {
		s.TopP = *topP
	}

	return s
}
