package react

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-agent-poc/server/internal/agent/conversations"
	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/agent/repo"
	"github.com/storefront-agent-poc/server/internal/agent/tools"
	"github.com/storefront-agent-poc/server/internal/catalog"
)

// scriptedModel replays a fixed response sequence, repeating the last entry
// once the script runs out.
type scriptedModel struct {
	responses []*schema.Message
	calls     int
}

func (m *scriptedModel) Generate(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	i := m.calls
	m.calls++
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

type failingModel struct {
	err   error
	calls int
}

func (m *failingModel) Generate(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.calls++
	return nil, m.err
}

func answer(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}

func toolCall(name, args string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{
		Function: schema.FunctionCall{Name: name, Arguments: args},
	}})
}

func newEngine(t *testing.T, cm model.ChatModel, maxSteps int) *Engine {
	t.Helper()
	toolMap, err := tools.Map(context.Background(), tools.QueryTools(catalog.Default()))
	require.NoError(t, err)
	return New(Config{
		ChatModel: cm,
		Tools:     toolMap,
		MaxSteps:  maxSteps,
		ModelName: "gemini-2.5-flash",
	})
}

func TestRunDirectAnswer(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{answer("We stock five products.")}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "what do you sell?"})

	assert.Equal(t, StatusDone, report.Status)
	assert.Equal(t, "We stock five products.", report.Answer)
	assert.Equal(t, 1, report.Iterations)
	assert.False(t, report.BoundExceeded)
	assert.Nil(t, report.Failure)
	assert.Equal(t, 1, cm.calls)
}

func TestRunToolCallThenAnswer(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{
		toolCall(tools.ToolCheckStock, `{"product_id":"LAPTOP001"}`),
		answer("Yes, 25 units in stock."),
	}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "is the pavilion in stock?"})

	require.Equal(t, StatusDone, report.Status)
	assert.Equal(t, "Yes, 25 units in stock.", report.Answer)
	assert.Equal(t, 2, report.Iterations)

	require.Len(t, report.Steps, 2)
	assert.Equal(t, StepAction, report.Steps[0].Type)
	assert.Equal(t, tools.ToolCheckStock, report.Steps[0].Tool)
	assert.Equal(t, StepObservation, report.Steps[1].Type)
	assert.Contains(t, report.Steps[1].Content, `"quantity":25`)
}

func TestRunRecordsThoughts(t *testing.T) {
	withThought := toolCall(tools.ToolSearchProducts, `{"query":"laptop"}`)
	withThought.Content = "I should search the catalog first."
	cm := &scriptedModel{responses: []*schema.Message{withThought, answer("Found two laptops.")}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "any laptops?"})

	require.Equal(t, StatusDone, report.Status)
	require.NotEmpty(t, report.Steps)
	assert.Equal(t, StepThought, report.Steps[0].Type)
	assert.Equal(t, "I should search the catalog first.", report.Steps[0].Content)
}

func TestRunGatewayErrorFailsWithoutRetry(t *testing.T) {
	cm := &failingModel{err: errors.New("rate limited")}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "hello"})

	require.Equal(t, StatusFailed, report.Status)
	require.NotNil(t, report.Failure)
	assert.Equal(t, FailureUpstream, report.Failure.Kind)
	assert.Contains(t, report.Failure.Detail, "rate limited")
	assert.Empty(t, report.Answer)
	assert.Equal(t, 1, cm.calls)
}

func TestRunEmptyResponseIsParseFailure(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{answer("   ")}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "hello"})

	require.Equal(t, StatusFailed, report.Status)
	require.NotNil(t, report.Failure)
	assert.Equal(t, FailureParse, report.Failure.Kind)
}

func TestRunStepBound(t *testing.T) {
	// a model that never stops calling tools
	cm := &scriptedModel{responses: []*schema.Message{
		toolCall(tools.ToolSearchProducts, `{"query":"laptop"}`),
	}}
	e := newEngine(t, cm, 2)

	report := e.Run(context.Background(), model.QueryInput{Query: "compare everything"})

	assert.Equal(t, StatusDone, report.Status)
	assert.True(t, report.BoundExceeded)
	assert.Equal(t, 2, report.Iterations)
	assert.NotEmpty(t, report.Answer)
	// two loop calls plus the wrap-up call
	assert.Equal(t, 3, cm.calls)
}

func TestRunStepBoundUpstreamFailure(t *testing.T) {
	// the wrap-up call itself can fail
	cm := &wrapUpFailModel{}
	e := newEngine(t, cm, 1)

	report := e.Run(context.Background(), model.QueryInput{Query: "hi"})

	require.Equal(t, StatusFailed, report.Status)
	assert.True(t, report.BoundExceeded)
	assert.Equal(t, FailureUpstream, report.Failure.Kind)
}

type wrapUpFailModel struct {
	calls int
}

func (m *wrapUpFailModel) Generate(ctx context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.calls++
	if m.calls == 1 {
		return toolCall(tools.ToolSearchProducts, `{"query":"laptop"}`), nil
	}
	return nil, errors.New("connection reset")
}

func TestRunUnknownToolRecoveredLocally(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{
		toolCall("teleport_product", `{}`),
		answer("Sorry, I can't do that, but I can search the catalog."),
	}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "teleport it to me"})

	require.Equal(t, StatusDone, report.Status)
	require.Len(t, report.Steps, 2)
	assert.Contains(t, report.Steps[1].Content, "unknown_tool")
}

func TestRunMissingProductRecoveredLocally(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{
		toolCall(tools.ToolGetProductDetails, `{"product_id":"GHOST01"}`),
		answer("I couldn't find that product."),
	}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "tell me about GHOST01"})

	require.Equal(t, StatusDone, report.Status)
	require.Len(t, report.Steps, 2)
	assert.Contains(t, report.Steps[1].Content, "product not found")
	assert.Nil(t, report.Failure)
}

func TestRunCostAccrual(t *testing.T) {
	resp := answer("done")
	resp.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000},
	}
	cm := &scriptedModel{responses: []*schema.Message{resp}}
	e := newEngine(t, cm, 5)

	report := e.Run(context.Background(), model.QueryInput{Query: "hello"})

	require.Equal(t, StatusDone, report.Status)
	// 0.30 input + 2.50 output per 1M tokens
	assert.InDelta(t, 2.80, report.TotalCostUSD, 1e-9)
}

func TestRunSavesConversation(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{answer("hi there")}}
	toolMap, err := tools.Map(context.Background(), tools.QueryTools(catalog.Default()))
	require.NoError(t, err)

	convRepo := repo.NewMemoryConversationRepository()
	e := New(Config{
		ChatModel:     cm,
		Tools:         toolMap,
		Conversations: conversations.NewManager(convRepo, model.ReActConfig{HistoryMaxTurns: 5}),
		MaxSteps:      5,
		ModelName:     "gemini-2.5-flash",
	})

	report := e.Run(context.Background(), model.QueryInput{ConversationID: "c1", Query: "hello"})
	require.Equal(t, StatusDone, report.Status)

	n, err := convRepo.GetMessageCount(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
