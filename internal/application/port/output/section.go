package output

import (
	"context"

	"apply-autofill/internal/domain/entity"
)

// SectionBuilder turns profile data and the current page into a plan.
// Builders are idempotent: rebuilding against an unchanged page must not
// re-add entries that already exist.
type SectionBuilder interface {
	Name() string
	Kinds() []entity.PageKind
	Build(ctx context.Context, profile *entity.Profile, probe PageProbe) (*entity.Plan, error)
}

type SectionRegistry interface {
	Register(builder SectionBuilder)
	Get(kind entity.PageKind) (SectionBuilder, bool)
	All() []SectionBuilder
}

type InstructionExecutor interface {
	Execute(ctx context.Context, queue entity.Queue) (*ExecuteReport, error)
}

type ExecuteReport struct {
	Attempted int
	Succeeded int
	Remaining entity.Queue
}

type PageClassifier interface {
	Classify(ctx context.Context) entity.PageKind
}
