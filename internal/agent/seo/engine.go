// Package seo runs the description-improvement loop: an actor drafts a
// product description, an evaluator scores it against the delimiter-framed
// output contract, and a reflector distills lessons that feed the next
// draft. The loop converges when the score clears the threshold or the
// cycle bound is reached.
package seo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	errx "github.com/storefront-agent-poc/server/internal/core/error"
	logx "github.com/storefront-agent-poc/server/pkg/logger"

	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/agent/parsers"
	"github.com/storefront-agent-poc/server/internal/agent/prompts"
	"github.com/storefront-agent-poc/server/internal/catalog"
)

const (
	DefaultScoreThreshold = 90
	DefaultMaxCycles      = 5
	DefaultMemoryWindow   = 3

	// maxFeedbackLen bounds the feedback excerpt rendered into the next
	// actor prompt so long evaluations don't crowd out the task itself.
	maxFeedbackLen = 600
)

// Config wires a description-improvement engine. The same chat model serves
// the actor, evaluator and reflector roles.
type Config struct {
	ChatModel model.ChatModel
	Catalog   *catalog.Catalog
	SEO       model.SEOConfig
	ModelName string // for usage cost accounting
}

// Engine executes one sequential improvement run per request. Safe for
// concurrent use: all per-request state lives in the run.
type Engine struct {
	cm        model.ChatModel
	cat       *catalog.Catalog
	threshold float64
	maxCycles int
	window    int
	modelName string
}

func New(cfg Config) *Engine {
	threshold := cfg.SEO.ScoreThreshold
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}
	maxCycles := cfg.SEO.MaxCycles
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}
	window := cfg.SEO.MemoryCapacity
	if window <= 0 {
		window = DefaultMemoryWindow
	}
	return &Engine{
		cm:        cfg.ChatModel,
		cat:       cfg.Catalog,
		threshold: threshold,
		maxCycles: maxCycles,
		window:    window,
		modelName: cfg.ModelName,
	}
}

// Run executes the loop for one product. An unknown product id is the only
// error returned directly; every model-side failure terminates the loop in
// the failed phase and is reported with the partial progress made so far.
func (e *Engine) Run(ctx context.Context, in model.SEOInput) (*Report, error) {
	p, err := e.cat.Details(in.ProductID)
	if err != nil {
		return nil, errx.WrapNotFound(err)
	}

	st := &state{input: in, product: p, phase: PhaseActing}
	if strings.TrimSpace(in.Description) == "" {
		st.input.Description = p.Description
	}

	for {
		st.cycle++
		logx.Debug().Int("cycle", st.cycle).Str("product_id", p.ID).Msg("Drafting description")

		st.setPhase(PhaseActing)
		draft, fl := e.act(ctx, st)
		if fl != nil {
			return e.fail(st, fl), nil
		}
		st.description = draft

		st.setPhase(PhaseEvaluating)
		eval, fl := e.evaluate(ctx, st)
		if fl != nil {
			return e.fail(st, fl), nil
		}
		st.score = eval.Score
		feedback := eval.FeedbackSummary()
		st.attempts = append(st.attempts, Attempt{
			Cycle:       st.cycle,
			Description: draft,
			Score:       eval.Score,
			Feedback:    feedback,
		})
		logx.Debug().Int("cycle", st.cycle).Float64("score", eval.Score).Msg("Draft scored")

		st.setPhase(PhaseReflecting)
		lessons, fl := e.reflect(ctx, st, feedback)
		if fl != nil {
			return e.fail(st, fl), nil
		}
		st.lessons = append(st.lessons, LessonRecord{Cycle: st.cycle, Lessons: lessons})

		if st.score >= e.threshold || st.cycle >= e.maxCycles {
			st.setPhase(PhaseConverged)
			logx.Info().
				Int("cycles", st.cycle).
				Float64("score", st.score).
				Bool("threshold_met", st.score >= e.threshold).
				Str("product_id", p.ID).
				Msg("Description improvement converged")
			return st.report(), nil
		}
	}
}

// act asks the model for a fresh draft informed by the lessons window and
// the previous attempt's feedback.
func (e *Engine) act(ctx context.Context, st *state) (string, *Failure) {
	sys, err := prompts.RenderActorSystem(ctx)
	if err != nil {
		return "", &Failure{Kind: FailureInternal, Detail: err.Error()}
	}

	var b strings.Builder
	b.WriteString("Write an SEO-optimized product description.\n\n")
	b.WriteString(productFacts(st.product))
	if len(st.input.Keywords) > 0 {
		fmt.Fprintf(&b, "\nTarget keywords: %s\n", strings.Join(st.input.Keywords, ", "))
	}
	if st.input.Audience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", st.input.Audience)
	}
	if st.input.Description != "" {
		fmt.Fprintf(&b, "\nCurrent description:\n%s\n", st.input.Description)
	}
	if ctxText := e.lessonContext(st); ctxText != "" {
		fmt.Fprintf(&b, "\nLessons from previous attempts:\n%s\n", ctxText)
	}
	if prev := lastAttempt(st); prev != nil {
		fmt.Fprintf(&b, "\nPrevious draft (cycle %d) scored %.1f. Feedback:\n%s\n",
			prev.Cycle, prev.Score, clip(prev.Feedback, maxFeedbackLen))
	}

	out, err := e.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(sys),
		schema.UserMessage(b.String()),
	})
	if err != nil {
		return "", &Failure{Kind: FailureUpstream, Detail: err.Error()}
	}
	st.totalCostUSD += model.UsageCost(out, e.modelName)

	draft := strings.TrimSpace(out.Content)
	if draft == "" {
		return "", &Failure{Kind: FailureParse, Detail: "actor produced an empty description"}
	}
	return draft, nil
}

// evaluate scores the current draft. The evaluator's delimiter-framed
// output is the structured contract; anything that doesn't parse is a
// parse failure, not something to scrape free text for.
func (e *Engine) evaluate(ctx context.Context, st *state) (*model.Evaluation, *Failure) {
	sys, err := prompts.RenderEvaluatorSystem(ctx)
	if err != nil {
		return nil, &Failure{Kind: FailureInternal, Detail: err.Error()}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s (%s)\n", st.product.Name, st.product.ID)
	if len(st.input.Keywords) > 0 {
		fmt.Fprintf(&b, "Target keywords: %s\n", strings.Join(st.input.Keywords, ", "))
	}
	fmt.Fprintf(&b, "\nDescription to evaluate:\n%s\n", st.description)

	out, err := e.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(sys),
		schema.UserMessage(b.String()),
	})
	if err != nil {
		return nil, &Failure{Kind: FailureUpstream, Detail: err.Error()}
	}
	st.totalCostUSD += model.UsageCost(out, e.modelName)

	eval, err := parsers.ParseEvaluation(out.Content)
	if err != nil {
		return nil, &Failure{Kind: FailureParse, Detail: err.Error()}
	}
	return eval, nil
}

// reflect distills the evaluator's feedback into lessons for the next
// cycle. It runs every cycle, including the one that converges, so the
// final attempt's feedback is never lost.
func (e *Engine) reflect(ctx context.Context, st *state, feedback string) ([]string, *Failure) {
	sys, err := prompts.RenderReflectorSystem(ctx)
	if err != nil {
		return nil, &Failure{Kind: FailureInternal, Detail: err.Error()}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Draft (cycle %d):\n%s\n", st.cycle, st.description)
	fmt.Fprintf(&b, "\nEvaluator feedback:\n%s\n", feedback)

	out, err := e.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(sys),
		schema.UserMessage(b.String()),
	})
	if err != nil {
		return nil, &Failure{Kind: FailureUpstream, Detail: err.Error()}
	}
	st.totalCostUSD += model.UsageCost(out, e.modelName)

	lessons, err := parsers.ParseLessons(out.Content)
	if err != nil {
		return nil, &Failure{Kind: FailureParse, Detail: err.Error()}
	}
	return lessons, nil
}

func (e *Engine) fail(st *state, fl *Failure) *Report {
	logx.Error().
		Str("kind", string(fl.Kind)).
		Str("detail", fl.Detail).
		Int("cycle", st.cycle).
		Str("product_id", st.product.ID).
		Msg("Description improvement failed")
	st.failure = fl
	st.setPhase(PhaseFailed)
	return st.report()
}

// lessonContext renders the most recent lesson records, newest last, capped
// at the memory window.
func (e *Engine) lessonContext(st *state) string {
	if len(st.lessons) == 0 {
		return ""
	}
	recs := st.lessons
	if len(recs) > e.window {
		recs = recs[len(recs)-e.window:]
	}
	var b strings.Builder
	for _, rec := range recs {
		for _, l := range rec.Lessons {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func lastAttempt(st *state) *Attempt {
	if len(st.attempts) == 0 {
		return nil
	}
	return &st.attempts[len(st.attempts)-1]
}

func productFacts(p catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product facts:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Brand: %s\n", p.Brand)
	fmt.Fprintf(&b, "- Category: %s\n", p.Category)
	fmt.Fprintf(&b, "- Price: %.2f %s\n", p.Price, p.Currency)
	fmt.Fprintf(&b, "- Rating: %.1f/5\n", p.Rating)
	if len(p.Specifications) > 0 {
		keys := make([]string, 0, len(p.Specifications))
		for k := range p.Specifications {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, p.Specifications[k])
		}
	}
	return b.String()
}

// clip truncates s to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
