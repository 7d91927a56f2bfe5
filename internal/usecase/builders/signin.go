package builders

import (
	"context"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionBuilder = (*SignInBuilder)(nil)

type SignInBuilder struct{}

func NewSignInBuilder() *SignInBuilder {
	return &SignInBuilder{}
}

func (b *SignInBuilder) Name() string { return "sign_in" }

func (b *SignInBuilder) Kinds() []entity.PageKind {
	return []entity.PageKind{entity.PageSignIn}
}

func (b *SignInBuilder) Build(ctx context.Context, profile *entity.Profile, probe output.PageProbe) (*entity.Plan, error) {
	if profile == nil {
		return nil, errNoProfile
	}
	acc := profile.Account

	return &entity.Plan{
		Name: b.Name(),
		Phases: []entity.Phase{
			{
				Name:  "open",
				Queue: entity.Queue{entity.NewClick(SignInLink, entity.Required())},
			},
			{
				Name: "credentials",
				Queue: entity.Queue{
					entity.NewFill(SignInEmail, acc.Email, entity.Required()),
					entity.NewFill(SignInPassword, acc.Password, entity.Required()),
				},
				SettleAfter: formSettle,
			},
			{
				Name:        "submit",
				Queue:       entity.Queue{entity.NewClick(SignInSubmit)},
				SettleAfter: pageSettle,
			},
		},
	}, nil
}
