package output

import "apply-autofill/internal/domain/entity"

type MetricsPort interface {
	InstructionAttempted(kind entity.ActionKind, outcome string)
	PageClassified(kind entity.PageKind)
	Escalated(reason entity.EscalationReason)
	FlowFinished(outcome string)
}

// Instruction outcomes reported to MetricsPort.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
	OutcomeFatal     = "fatal"
)

type NopMetrics struct{}

func (NopMetrics) InstructionAttempted(entity.ActionKind, string) {}
func (NopMetrics) PageClassified(entity.PageKind)                 {}
func (NopMetrics) Escalated(entity.EscalationReason)              {}
func (NopMetrics) FlowFinished(string)                            {}
