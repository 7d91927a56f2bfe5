package input

import (
	"context"

	"apply-autofill/internal/domain/entity"
)

// FlowRunner drives one application from the start URL to submission or abort.
type FlowRunner interface {
	Run(ctx context.Context, startURL string) (*entity.FlowResult, error)
}
