package builders

import (
	"context"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionBuilder = (*ReviewBuilder)(nil)

// ReviewBuilder presses Submit on the review page. The click is best-effort.
type ReviewBuilder struct{}

func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{}
}

func (b *ReviewBuilder) Name() string { return "review" }

func (b *ReviewBuilder) Kinds() []entity.PageKind {
	return []entity.PageKind{entity.PageReview}
}

func (b *ReviewBuilder) Build(ctx context.Context, profile *entity.Profile, probe output.PageProbe) (*entity.Plan, error) {
	return &entity.Plan{
		Name: b.Name(),
		Phases: []entity.Phase{{
			Name:        "submit",
			Queue:       entity.Queue{entity.NewClick(SubmitButton)},
			SettleAfter: formSettle,
		}},
	}, nil
}
