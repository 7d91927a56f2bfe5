package output

import (
	"context"

	"apply-autofill/internal/domain/entity"
)

// OperatorPort is the manual-intervention surface. RequestDecision blocks
// until a human answers or ctx is done.
type OperatorPort interface {
	RequestDecision(ctx context.Context, esc entity.Escalation) (entity.Decision, error)

	ShowAttempt(ctx context.Context, attempt, maxAttempts int, kind entity.PageKind)
	ShowPhase(ctx context.Context, plan, phase string, remaining int)
}

// DiagnosticsPort persists what the operator needs to look at when escalated.
type DiagnosticsPort interface {
	Record(ctx context.Context, runID string, reason entity.EscalationReason) ([]string, error)
}
