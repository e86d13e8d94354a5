// Package react runs the query-answering loop: the chat model decides which
// catalog tool to invoke, the engine executes it, feeds the observation
// back, and repeats until the model produces a final answer or the step
// bound is hit. All reasoning is delegated to the model; the engine owns
// prompt assembly, tool dispatch, bounds and failure classification.
package react

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	logx "github.com/storefront-agent-poc/server/pkg/logger"

	"github.com/storefront-agent-poc/server/internal/agent/conversations"
	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/agent/prompts"
)

const DefaultMaxSteps = 5

// Config wires a query-loop engine.
type Config struct {
	ChatModel     model.ChatModel // catalog tools already bound
	Tools         map[string]tool.InvokableTool
	Conversations *conversations.Manager // optional; nil disables follow-up memory
	Prompt        model.PromptConfig
	MaxSteps      int
	ModelName     string // for usage cost accounting
}

// Engine executes one sequential loop run per request. Safe for concurrent
// use: all per-request state lives in the run.
type Engine struct {
	cm        model.ChatModel
	tools     map[string]tool.InvokableTool
	mm        *conversations.Manager
	prompt    model.PromptConfig
	maxSteps  int
	modelName string
}

func New(cfg Config) *Engine {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Engine{
		cm:        cfg.ChatModel,
		tools:     cfg.Tools,
		mm:        cfg.Conversations,
		prompt:    cfg.Prompt,
		maxSteps:  maxSteps,
		modelName: cfg.ModelName,
	}
}

// Run executes the loop for one query. It always returns a report; failures
// are request-scoped and never panic or crash the service.
func (e *Engine) Run(ctx context.Context, in model.QueryInput) *Report {
	st := &state{
		query:          in.Query,
		conversationID: in.ConversationID,
		phase:          PhaseThinking,
	}

	sys, err := prompts.RenderReActSystem(ctx, e.prompt)
	if err != nil {
		return e.fail(st, FailureInternal, err)
	}
	st.transcript = append(st.transcript, schema.SystemMessage(sys))

	if e.mm != nil {
		prior, err := e.mm.ProcessQuery(ctx, in.ConversationID, in.Query)
		if err != nil {
			// degrade to a stateless answer rather than failing the query
			logx.Warn().Err(err).Str("conversation_id", in.ConversationID).
				Msg("conversation history unavailable, answering without it")
		} else {
			st.transcript = append(st.transcript, prior...)
		}
	}
	st.transcript = append(st.transcript, schema.UserMessage(in.Query))

	for {
		if st.iterations >= e.maxSteps {
			return e.wrapUp(ctx, st)
		}
		st.iterations++

		logx.Debug().Int("iteration", st.iterations).Str("conversation_id", st.conversationID).Msg("AI thinking...")
		out, err := e.cm.Generate(ctx, st.transcript)
		if err != nil {
			return e.fail(st, FailureUpstream, err)
		}
		st.totalCostUSD += model.UsageCost(out, e.modelName)
		e.normalizeToolCallIDs(st, out)
		st.transcript = append(st.transcript, out)

		if thought := strings.TrimSpace(out.Content); thought != "" && len(out.ToolCalls) > 0 {
			st.appendStep(Step{Type: StepThought, Content: thought})
		}

		if len(out.ToolCalls) == 0 {
			answer := strings.TrimSpace(out.Content)
			if answer == "" {
				return e.fail(st, FailureParse, fmt.Errorf("assistant produced neither a tool call nor an answer"))
			}
			return e.finish(ctx, st, answer)
		}

		st.setPhase(PhaseActing)
		logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
		for _, tc := range out.ToolCalls {
			st.appendStep(Step{
				Type:      StepAction,
				Content:   fmt.Sprintf("%s[%s]", tc.Function.Name, tc.Function.Arguments),
				Tool:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})

			obs := e.invokeTool(ctx, tc)

			st.setPhase(PhaseObserving)
			st.appendStep(Step{Type: StepObservation, Content: obs, Tool: tc.Function.Name})
			st.transcript = append(st.transcript, &schema.Message{
				Role:       schema.Tool,
				Content:    obs,
				ToolCallID: tc.ID,
			})
		}
		st.setPhase(PhaseThinking)
	}
}

// wrapUp handles the step bound: one final model call with a wrap-up notice
// yields a best-effort answer. Hitting the bound is graceful termination,
// not an error.
func (e *Engine) wrapUp(ctx context.Context, st *state) *Report {
	st.boundExceeded = true
	logx.Warn().
		Int("max_steps", e.maxSteps).
		Str("conversation_id", st.conversationID).
		Msg("Step limit reached - requesting best-effort answer")

	st.transcript = append(st.transcript, &schema.Message{
		Role: schema.System,
		Content: fmt.Sprintf(
			"SYSTEM NOTICE: You have reached the maximum step limit (%d). "+
				"Please synthesize a helpful response using the information you've already gathered. "+
				"Acknowledge any limitations in your response if you couldn't complete all necessary tool calls.",
			e.maxSteps,
		),
	})

	out, err := e.cm.Generate(ctx, st.transcript)
	if err != nil {
		return e.fail(st, FailureUpstream, err)
	}
	st.totalCostUSD += model.UsageCost(out, e.modelName)

	answer := strings.TrimSpace(out.Content)
	if answer == "" {
		answer = "I couldn't complete the request within the step budget. Please try a more specific question."
	}
	return e.finish(ctx, st, answer)
}

func (e *Engine) finish(ctx context.Context, st *state, answer string) *Report {
	st.finalAnswer = answer
	st.setPhase(PhaseDone)
	if e.mm != nil {
		if err := e.mm.SaveAnswer(ctx, st.conversationID, answer); err != nil {
			logx.Error().Err(err).Str("conversation_id", st.conversationID).
				Msg("Error saving assistant answer")
		}
	}
	logx.Debug().Int("iterations", st.iterations).Msg("AI response ready")
	return st.report()
}

func (e *Engine) fail(st *state, kind FailureKind, err error) *Report {
	logx.Error().Err(err).Str("kind", string(kind)).
		Str("conversation_id", st.conversationID).
		Msg("Query loop failed")
	st.failure = &Failure{Kind: kind, Detail: err.Error()}
	st.setPhase(PhaseFailed)
	return st.report()
}

// invokeTool dispatches one tool call. Tool errors (including a missing
// product id) are recovered locally: they become observations the model can
// react to, never loop failures.
func (e *Engine) invokeTool(ctx context.Context, tc schema.ToolCall) string {
	t, ok := e.tools[tc.Function.Name]
	if !ok {
		// Gracefully handle hallucinated or malformed tool calls (e.g., empty name)
		logx.Warn().
			Str("tool_name", tc.Function.Name).
			Str("arguments", tc.Function.Arguments).
			Msg("Unknown or invalid tool call; returning fallback result")
		return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", tc.Function.Name)
	}

	res, err := t.InvokableRun(ctx, tc.Function.Arguments)
	if err != nil {
		logx.Warn().Err(err).Str("tool_name", tc.Function.Name).Msg("Tool returned an error")
		b, merr := json.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return `{"error":"tool execution failed"}`
		}
		return string(b)
	}
	return res
}

// normalizeToolCallIDs synthesizes tool_call ids when the provider omits
// them, so tool result messages stay linked to their calls.
func (e *Engine) normalizeToolCallIDs(st *state, out *schema.Message) {
	for i := range out.ToolCalls {
		if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
			st.toolCallIDSeq++
			out.ToolCalls[i].ID = fmt.Sprintf("call_%d", st.toolCallIDSeq)
		}
	}
}
