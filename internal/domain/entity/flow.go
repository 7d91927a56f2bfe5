package entity

import (
	"fmt"
	"time"
)

// FlowState is the state of the page flow controller.
type FlowState string

const (
	StateBootstrapping  FlowState = "bootstrapping"
	StateAuthenticating FlowState = "authenticating"
	StateFillingSection FlowState = "filling_section"
	StateAtReview       FlowState = "at_review"
	StateEscalated      FlowState = "escalated"
	StateDone           FlowState = "done"
)

// Decision is the operator's answer to an escalation.
type Decision int

const (
	DecisionResume Decision = iota + 1
	DecisionForceSubmit
	DecisionAbort
)

func (d Decision) String() string {
	switch d {
	case DecisionResume:
		return "resume"
	case DecisionForceSubmit:
		return "force_submit"
	case DecisionAbort:
		return "abort"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// ParseDecision accepts the console digits (1/2/3) and the wire names.
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "1", "resume":
		return DecisionResume, nil
	case "2", "force_submit":
		return DecisionForceSubmit, nil
	case "3", "abort":
		return DecisionAbort, nil
	}
	return 0, fmt.Errorf("unknown decision %q", s)
}

type EscalationReason string

const (
	ReasonUnknownPage   EscalationReason = "unknown_page"
	ReasonNoProgress    EscalationReason = "no_progress"
	ReasonHardMiss      EscalationReason = "hard_miss"
	ReasonMaxAttempts   EscalationReason = "max_attempts"
	ReasonSubmitFailure EscalationReason = "submit_failure"
)

// Escalation describes why control is being handed to the operator.
type Escalation struct {
	RunID       string
	Reason      EscalationReason
	PageKind    PageKind
	Attempt     int
	MaxAttempts int
	URL         string
	Err         error
	Artifacts   []string
	RaisedAt    time.Time
}

func (e Escalation) Message() string {
	msg := fmt.Sprintf("%s on page %s (attempt %d/%d)", e.Reason, e.PageKind, e.Attempt, e.MaxAttempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Phase is one executor invocation of a page plan.
type Phase struct {
	Name        string
	Queue       Queue
	WaitFor     Locator
	WaitTimeout time.Duration
	SettleAfter time.Duration
}

// Plan is the ordered set of phases that handles one page.
// When FailureSignal is set and present after the last phase, the plan failed.
type Plan struct {
	Name          string
	Phases        []Phase
	FailureSignal Locator
}

// FlowResult summarises one run of the controller.
type FlowResult struct {
	RunID        string
	Submitted    bool
	Aborted      bool
	Attempts     int
	Escalations  int
	Visited      []PageKind
	FinalState   FlowState
	LastPageKind PageKind
}
