// Package upstream is a thin typed client for the OpenAI-compatible API the
// bridge forwards to. It exposes exactly two calls: model listing and chat
// completion.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/papercomputeco/bridge/pkg/llm"
	"github.com/papercomputeco/bridge/pkg/metrics"
)

// Model is a model summary as returned by the upstream listing.
type Model struct {
	ID      string
	Created time.Time
}

// Completion is a single chat completion request.
type Completion struct {
	Model    string
	Messages []llm.Message
	llm.Sampling
}

// Config configures the upstream client.
type Config struct {
	// BaseURL of the OpenAI-compatible API, including any version prefix
	// (e.g., "https://api.openai.com/v1").
	BaseURL string

	// APIKey is sent as a bearer token. An empty key is sent as-is and
	// surfaces as an authentication failure on first use.
	APIKey string

	// Timeout bounds each upstream call.
	Timeout time.Duration

	// MaxRetries is the SDK retry budget for retryable failures.
	MaxRetries int

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client issues model-list and chat-completion calls against the upstream.
type Client struct {
	sdk     openai.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a new Client.
func New(config Config, logger *zap.Logger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		// LLM requests can be slow, especially with thinking blocks
		timeout = 5 * time.Minute
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(config.MaxRetries),
		option.WithRequestTimeout(timeout),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(config.BaseURL, "/")+"/"))
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}

	return &Client{
		sdk:     openai.NewClient(opts...),
		timeout: timeout,
		logger:  logger,
	}
}

// ListModels returns the upstream models in the order the upstream lists them.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	page, err := c.sdk.Models.List(ctx)
	metrics.UpstreamLatency.WithLabelValues(metrics.OperationList).Observe(time.Since(start).Seconds())
	if err != nil {
		classified := classify(err)
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OperationList, classified.Kind.String()).Inc()
		return nil, classified
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OperationList, metrics.OutcomeOK).Inc()

	models := make([]Model, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, Model{
			ID:      m.ID,
			Created: time.Unix(m.Created, 0).UTC(),
		})
	}

	c.logger.Debug("listed upstream models", zap.Int("count", len(models)))
	return models, nil
}

// CreateChatCompletion returns the content of the first completion choice.
// Every failure is returned as an *Error.
func (c *Client) CreateChatCompletion(ctx context.Context, req Completion) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    toMessageParams(req.Messages),
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		TopP:        openai.Float(req.TopP),
	}

	c.logger.Debug("sending chat completion upstream",
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
		zap.Float64("temperature", req.Temperature),
		zap.Int("max_tokens", req.MaxTokens),
		zap.Float64("top_p", req.TopP),
	)

	start := time.Now()
	completion, err := c.sdk.Chat.Completions.New(ctx, params)
	metrics.UpstreamLatency.WithLabelValues(metrics.OperationComplete).Observe(time.Since(start).Seconds())
	if err != nil {
		classified := classify(err)
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OperationComplete, classified.Kind.String()).Inc()
		return "", classified
	}

	if len(completion.Choices) == 0 {
		noChoices := &Error{Kind: KindNoChoices}
		if field, ok := completion.JSON.ExtraFields["error"]; ok {
			// An explicit "error": null carries nothing worth reporting.
			if raw := strings.TrimSpace(field.Raw()); raw != "" && raw != "null" {
				noChoices.Detail = raw
			}
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OperationComplete, noChoices.Kind.String()).Inc()
		return "", noChoices
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.OperationComplete, metrics.OutcomeOK).Inc()
	return completion.Choices[0].Message.Content, nil
}

// classify maps an SDK or transport error onto an *Error.
func classify(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized {
			return &Error{Kind: KindAuth, Detail: apiErr.Message, Cause: err}
		}
		return &Error{Kind: KindAPI, Detail: apiErrorDetail(apiErr), Cause: err}
	}
	return &Error{Kind: KindOther, Cause: err}
}

// apiErrorDetail digs the upstream's own explanation out of an error response.
// OpenAI nests it under "error"; some compatible servers put it at the top level.
func apiErrorDetail(apiErr *openai.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}

	var body struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if raw := apiErr.RawJSON(); raw != "" && json.Unmarshal([]byte(raw), &body) == nil {
		if body.Error.Message != "" {
			return body.Error.Message
		}
		if body.Message != "" {
			return body.Message
		}
	}

	return fmt.Sprintf("HTTP %d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
}

func toMessageParams(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case llm.RoleDeveloper:
			params = append(params, openai.DeveloperMessage(m.Content))
		case llm.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}
