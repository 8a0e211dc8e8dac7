package proxy

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// headerHTTP2Settings accompanies an h2c upgrade attempt (RFC 7540 §3.2).
const headerHTTP2Settings = "HTTP2-Settings"

// rejectH2CUpgrade declines HTTP/2 cleartext upgrade probes before the body is
// read. Some reverse proxies send these and expect a clean refusal.
func rejectH2CUpgrade(c *fiber.Ctx) error {
	header := &c.Context().Request.Header
	if len(header.Peek(fasthttp.HeaderUpgrade)) == 0 || len(header.Peek(headerHTTP2Settings)) == 0 {
		return c.Next()
	}

	c.Set(fiber.HeaderUpgrade, "HTTP/1.1")
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// logRequests emits one structured log entry per request.
func (p *Proxy) logRequests(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	fields := []zap.Field{
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		p.logger.Error("request failed", append(fields, zap.Error(err))...)
	} else {
		p.logger.Info("request completed", fields...)
	}

	return err
}
