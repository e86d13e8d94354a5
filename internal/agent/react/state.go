package react

import (
	"github.com/cloudwego/eino/schema"
)

// Phase names the loop states. A terminal phase, once set, is never unset.
type Phase string

const (
	PhaseThinking  Phase = "thinking"
	PhaseActing    Phase = "acting"
	PhaseObserving Phase = "observing"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

type StepType string

const (
	StepThought     StepType = "thought"
	StepAction      StepType = "action"
	StepObservation StepType = "observation"
)

// Step is one entry of the loop trajectory. The step sequence is
// append-only for the lifetime of a run.
type Step struct {
	Type      StepType `json:"type"`
	Content   string   `json:"content"`
	Tool      string   `json:"tool,omitempty"`
	Arguments string   `json:"arguments,omitempty"`
}

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

type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// state is the per-request loop state. Created per incoming query, mutated
// only by the sequential run, discarded after the report is returned.
type state struct {
	query          string
	conversationID string

	phase         Phase
	steps         []Step
	iterations    int
	boundExceeded bool
	finalAnswer   string
	failure       *Failure
	totalCostUSD  float64

	transcript    []*schema.Message
	toolCallIDSeq int
}

func (s *state) appendStep(step Step) {
	s.steps = append(s.steps, step)
}

// setPhase enforces the termination invariant: once a terminal phase is
// reached, no further transition is possible.
func (s *state) setPhase(p Phase) {
	if s.phase.Terminal() {
		return
	}
	s.phase = p
}

func (s *state) report() *Report {
	r := &Report{
		Status:        StatusDone,
		Answer:        s.finalAnswer,
		Steps:         s.steps,
		Iterations:    s.iterations,
		BoundExceeded: s.boundExceeded,
		Failure:       s.failure,
		TotalCostUSD:  s.totalCostUSD,
	}
	if s.phase == PhaseFailed {
		r.Status = StatusFailed
		r.Answer = ""
	}
	return r
}

// Report is the terminal outcome of one query-loop run, serialized to the
// caller as-is.
type Report struct {
	Status        Status   `json:"status"`
	Answer        string   `json:"answer,omitempty"`
	Steps         []Step   `json:"steps"`
	Iterations    int      `json:"iterations"`
	BoundExceeded bool     `json:"bound_exceeded"`
	Failure       *Failure `json:"failure,omitempty"`
	TotalCostUSD  float64  `json:"total_cost_usd"`
}
