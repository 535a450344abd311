// Package dispatch orchestrates sending a user message to the remote agent:
// optimistic append, single-flight agent call, response extraction, error
// surfacing, and manual retry.
package dispatch

import "context"

// AgentContext carries the correlation identifiers for one agent call.
type AgentContext struct {
	UserID    string
	SessionID string
}

// AgentResult is the structured outcome of an agent call. Response is an
// opaque decoded value; its shape belongs to the collaborator.
type AgentResult struct {
	Success  bool
	Response any
}

// AgentCaller invokes the remote agent. A returned error signals transport
// failure; a result with Success=false signals application failure. Both are
// surfaced to the user the same way.
type AgentCaller interface {
	Call(ctx context.Context, prompt, agentID string, actx AgentContext) (*AgentResult, error)
}

// AgentCallerFunc adapts a function to AgentCaller.
type AgentCallerFunc func(ctx context.Context, prompt, agentID string, actx AgentContext) (*AgentResult, error)

func (f AgentCallerFunc) Call(ctx context.Context, prompt, agentID string, actx AgentContext) (*AgentResult, error) {
	return f(ctx, prompt, agentID, actx)
}

// Extractor pulls display text out of an agent response. Best-effort: an
// empty string means nothing extractable.
type Extractor interface {
	Extract(v any) string
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(v any) string

func (f ExtractorFunc) Extract(v any) string { return f(v) }

// Telemetry receives the "agent is processing" signal keyed by session id.
type Telemetry interface {
	SetProcessing(sessionID string, processing bool)
}

type nopTelemetry struct{}

func (nopTelemetry) SetProcessing(string, bool) {}
