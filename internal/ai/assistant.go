package ai

import (
	"context"
	"errors"
	"strings"
)

// Assistant phrases the final conversational reply around a structured tool
// result. The tool results themselves are computed by the core engines; the
// assistant never decides, it only talks.
type Assistant interface {
	Enabled() bool
	Reply(ctx context.Context, input ReplyInput) (string, error)
}

// ReplyInput describes the exchange the assistant should narrate.
type ReplyInput struct {
	UserMessage string
	Tool        string
	ResultJSON  string
	Fallback    string
}

// ErrDisabled indicates the assistant has no credentials configured.
var ErrDisabled = errors.New("assistant disabled")

type assistantChain struct {
	primary  Assistant
	fallback Assistant
}

// WithFallback tries the primary assistant first and falls back when it is
// unavailable or produces an unusable reply.
func WithFallback(primary, fallback Assistant) Assistant {
	if primary == nil {
		return fallback
	}
	if fallback == nil {
		return primary
	}
	return &assistantChain{primary: primary, fallback: fallback}
}

func (c *assistantChain) Enabled() bool {
	if c == nil {
		return false
	}
	if c.primary != nil && c.primary.Enabled() {
		return true
	}
	return c.fallback != nil && c.fallback.Enabled()
}

func (c *assistantChain) Reply(ctx context.Context, input ReplyInput) (string, error) {
	if c == nil {
		return "", ErrDisabled
	}
	if c.primary != nil && c.primary.Enabled() {
		if reply, err := c.primary.Reply(ctx, input); err == nil && strings.TrimSpace(reply) != "" {
			return reply, nil
		}
	}
	if c.fallback != nil && c.fallback.Enabled() {
		return c.fallback.Reply(ctx, input)
	}
	return "", ErrDisabled
}

// StaticResponder echoes the caller-provided fallback message, so the service
// still answers when no model is configured.
type StaticResponder struct{}

func (StaticResponder) Enabled() bool { return true }

func (StaticResponder) Reply(_ context.Context, input ReplyInput) (string, error) {
	if strings.TrimSpace(input.Fallback) == "" {
		return "", errors.New("no fallback message supplied")
	}
	return input.Fallback, nil
}
