// Package builders turns profile data into instruction plans, one builder per
// form page. Builders only read the page through probes; they never act on it.
package builders

import (
	"context"
	"errors"
	"time"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var errNoProfile = errors.New("builders: nil profile")

// Settling delays after navigation-inducing phases.
const (
	shortSettle = 1 * time.Second
	formSettle  = 2 * time.Second
	pageSettle  = 5 * time.Second
)

// RegisterDefaults registers every page builder.
func RegisterDefaults(reg output.SectionRegistry, now func() time.Time) {
	reg.Register(NewAccountBuilder())
	reg.Register(NewSignInBuilder())
	reg.Register(NewPersonalInfoBuilder())
	reg.Register(NewExperienceBuilder())
	reg.Register(NewAdditionalInfoBuilder(now))
	reg.Register(NewReviewBuilder())
}

// exists treats a failing probe as absence, like the classifier does.
func exists(ctx context.Context, probe output.PageProbe, loc entity.Locator) bool {
	ok, err := probe.Exists(ctx, loc)
	return err == nil && ok
}

func saveAndContinue(name string) entity.Phase {
	return entity.Phase{
		Name:        name,
		Queue:       entity.Queue{entity.NewClick(SaveAndContinue)},
		SettleAfter: pageSettle,
	}
}
