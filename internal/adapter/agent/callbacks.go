package agent

import (
	"context"
	"unicode/utf8"

	"search-agent/internal/application/port/output"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/schema"
)

var _ callbacks.Handler = (*CallbackHandler)(nil)

const maxLoggedLen = 2000

// CallbackHandler logs the agent's steps.
type CallbackHandler struct {
	callbacks.SimpleHandler
	logger   output.LoggerPort
	observer output.StepObserver
}

func NewCallbackHandler(logger output.LoggerPort) *CallbackHandler {
	return &CallbackHandler{logger: logger.WithField("component", "agent")}
}

// WithObserver forwards tool activity to observer as well as the log.
func (h *CallbackHandler) WithObserver(observer output.StepObserver) *CallbackHandler {
	h.observer = observer
	return h
}

func (h *CallbackHandler) HandleAgentAction(ctx context.Context, action schema.AgentAction) {
	h.logger.Info("Agent action", "tool", action.Tool, "input", action.ToolInput)
	h.logger.Debug("Agent reasoning", "log", truncate(action.Log))
	if h.observer != nil {
		h.observer.ShowToolStart(ctx, action.Tool, action.ToolInput)
	}
}

func (h *CallbackHandler) HandleAgentFinish(_ context.Context, finish schema.AgentFinish) {
	h.logger.Info("Agent finished", "log", truncate(finish.Log))
}

func (h *CallbackHandler) HandleToolStart(_ context.Context, input string) {
	h.logger.Debug("Tool started", "input", input)
}

func (h *CallbackHandler) HandleToolEnd(ctx context.Context, out string) {
	h.logger.Debug("Tool completed", "output", truncate(out))
	if h.observer != nil {
		h.observer.ShowToolResult(ctx, out, false)
	}
}

func (h *CallbackHandler) HandleToolError(ctx context.Context, err error) {
	h.logger.Error("Tool failed", "error", err)
	if h.observer != nil {
		h.observer.ShowToolResult(ctx, err.Error(), true)
	}
}

func (h *CallbackHandler) HandleLLMError(_ context.Context, err error) {
	h.logger.Error("LLM call failed", "error", err)
}

func (h *CallbackHandler) HandleChainError(_ context.Context, err error) {
	h.logger.Warn("Chain failed", "error", err)
}

func truncate(s string) string {
	if len(s) > maxLoggedLen {
		return cutRunes(s, maxLoggedLen) + "... (truncated)"
	}
	return s
}

// cutRunes shortens s to at most n bytes without splitting a UTF-8 sequence.
func cutRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
