package proxy

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/bridge/pkg/llm"
	"github.com/papercomputeco/bridge/pkg/upstream"
)

// HeaderUpstreamError names the failure kind when a response's content is a
// failure description rather than model output. Its values are auth, api,
// other and no_choices.
const HeaderUpstreamError = "X-Bridge-Upstream-Error"

// livenessText is what GET / answers, matching the local API it imitates.
const livenessText = "Ollama is running"

// handleChat translates an Ollama chat request into an upstream chat completion.
// Completion failures are reported inside message.content with status 200.
func (p *Proxy) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	var req llm.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		p.logger.Warn("failed to parse chat request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "messages is required"})
	}

	p.logger.Debug("received chat request",
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
	)

	model, ok := p.resolveModel(c, req.Model)
	if !ok {
		return c.JSON(llm.ErrorResponse{Error: llm.ErrNoModels})
	}

	content := p.complete(c, upstream.Completion{
		Model:    model,
		Messages: req.Messages,
		Sampling: req.Sampling(),
	})

	p.logger.Debug("chat completed",
		zap.String("model", model),
		zap.String("content_preview", truncate(content, 100)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(llm.NewChatResponse(model, content, time.Now().UTC()))
}

// handleGenerate serves the single-prompt form of handleChat.
func (p *Proxy) handleGenerate(c *fiber.Ctx) error {
	startTime := time.Now()

	var req llm.GenerateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		p.logger.Warn("failed to parse generate request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "prompt is required"})
	}

	model, ok := p.resolveModel(c, req.Model)
	if !ok {
		return c.JSON(llm.ErrorResponse{Error: llm.ErrNoModels})
	}

	content := p.complete(c, upstream.Completion{
		Model:    model,
		Messages: req.Messages(),
		Sampling: req.Sampling(),
	})

	p.logger.Debug("generate completed",
		zap.String("model", model),
		zap.String("content_preview", truncate(content, 100)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(llm.NewGenerateResponse(model, content, time.Now().UTC()))
}

// handleTags lists the cached upstream models in the Ollama shape.
func (p *Proxy) handleTags(c *fiber.Ctx) error {
	models := p.models.Models(c.UserContext())

	resp := llm.ListResponse{Models: make([]llm.ListModel, 0, len(models))}
	for _, m := range models {
		resp.Models = append(resp.Models, llm.NewListModel(m.ID, m.Created))
	}

	return c.JSON(resp)
}

func (p *Proxy) handleVersion(c *fiber.Ctx) error {
	return c.JSON(llm.VersionResponse{Version: llm.APIVersion})
}

// handleShow describes every model the same way; the body is never read.
func (p *Proxy) handleShow(c *fiber.Ctx) error {
	return c.JSON(llm.ShowResponse{Capabilities: []string{llm.CapabilityCompletion}})
}

func (p *Proxy) handleRoot(c *fiber.Ctx) error {
	return c.SendString(livenessText)
}

// resolveModel returns the requested model, or the first upstream model when
// none was requested. It reports false when there is nothing to choose from.
func (p *Proxy) resolveModel(c *fiber.Ctx, requested string) (string, bool) {
	if requested != "" {
		return requested, true
	}

	first, ok := p.models.First(c.UserContext())
	if !ok {
		p.logger.Warn("no model requested and no upstream models available")
		return "", false
	}

	p.logger.Debug("defaulted to first upstream model", zap.String("model", first.ID))
	return first.ID, true
}

// complete runs the upstream completion and returns the content to send back.
// Successful output goes through the think-filter policy; failures become
// their human-readable message and are flagged with HeaderUpstreamError.
func (p *Proxy) complete(c *fiber.Ctx, req upstream.Completion) string {
	content, err := p.upstream.CreateChatCompletion(c.UserContext(), req)
	if err == nil {
		policy := p.policy.Load()
		if policy.Matches(req.Messages) {
			p.logger.Debug("stripping think blocks", zap.String("model", req.Model))
		}
		return policy.Apply(req.Messages, content)
	}

	var upErr *upstream.Error
	if !errors.As(err, &upErr) {
		upErr = &upstream.Error{Kind: upstream.KindOther, Cause: err}
	}

	p.logger.Error("upstream completion failed",
		zap.String("model", req.Model),
		zap.Stringer("kind", upErr.Kind),
		zap.Error(err),
	)

	c.Set(HeaderUpstreamError, upErr.Kind.String())
	return upErr.Message()
}

// truncate shortens s to at most maxLen runes for log previews.
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
