package seo

import (
	"github.com/storefront-agent-poc/server/internal/agent/model"
	"github.com/storefront-agent-poc/server/internal/catalog"
)

// Phase names the loop states. A terminal phase, once set, is never unset.
type Phase string

const (
	PhaseActing     Phase = "acting"
	PhaseEvaluating Phase = "evaluating"
	PhaseReflecting Phase = "reflecting"
	PhaseConverged  Phase = "converged"
	PhaseFailed     Phase = "failed"
)

func (p Phase) Terminal() bool {
	return p == PhaseConverged || p == PhaseFailed
}

type Status string

const (
	StatusConverged Status = "converged"
	StatusFailed    Status = "failed"
)

type FailureKind string

const (
	FailureUpstream FailureKind = "upstream_error"
	FailureParse    FailureKind = "parse_error"
	FailureInternal FailureKind = "internal_error"
)

// Failure carries the reason a run ended in the failed phase.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Detail string      `json:"detail"`
}

// Attempt records one completed actor+evaluator cycle.
type Attempt struct {
	Cycle       int     `json:"cycle"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Feedback    string  `json:"feedback"`
}

// LessonRecord is one reflector step's contribution to episodic memory:
// exactly one record per completed reflector step, append-only for the
// lifetime of a run.
type LessonRecord struct {
	Cycle   int      `json:"cycle"`
	Lessons []string `json:"lessons"`
}

// state is the per-request loop state. Created per optimization request,
// mutated across cycles by the sequential run, discarded after the report.
type state struct {
	input   model.SEOInput
	product catalog.Product

	phase        Phase
	cycle        int
	description  string
	score        float64
	attempts     []Attempt
	lessons      []LessonRecord
	failure      *Failure
	totalCostUSD float64
}

func (s *state) setPhase(p Phase) {
	if s.phase.Terminal() {
		return
	}
	s.phase = p
}

func (s *state) report() *Report {
	r := &Report{
		Status:       StatusConverged,
		ProductID:    s.product.ID,
		Description:  s.description,
		Score:        s.score,
		Cycles:       s.cycle,
		Lessons:      s.lessons,
		Attempts:     s.attempts,
		Failure:      s.failure,
		TotalCostUSD: s.totalCostUSD,
	}
	if s.phase == PhaseFailed {
		r.Status = StatusFailed
	}
	return r
}

// Report is the terminal outcome of one improvement run. A failed run still
// reports the partial progress made before the failure.
type Report struct {
	Status       Status         `json:"status"`
	ProductID    string         `json:"product_id"`
	Description  string         `json:"description,omitempty"`
	Score        float64        `json:"score"`
	Cycles       int            `json:"cycles"`
	Lessons      []LessonRecord `json:"lessons"`
	Attempts     []Attempt      `json:"attempts"`
	Failure      *Failure       `json:"failure,omitempty"`
	TotalCostUSD float64        `json:"total_cost_usd"`
}
