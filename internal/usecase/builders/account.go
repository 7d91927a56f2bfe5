package builders

import (
	"context"
	"time"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionBuilder = (*AccountBuilder)(nil)

// AccountBuilder creates a new candidate account. The plan fails when the
// site answers with an error message, typically because the account exists.
type AccountBuilder struct{}

func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{}
}

func (b *AccountBuilder) Name() string { return "account_creation" }

func (b *AccountBuilder) Kinds() []entity.PageKind {
	return []entity.PageKind{entity.PageAccountCreation}
}

func (b *AccountBuilder) Build(ctx context.Context, profile *entity.Profile, probe output.PageProbe) (*entity.Plan, error) {
	if profile == nil {
		return nil, errNoProfile
	}
	acc := profile.Account

	return &entity.Plan{
		Name: b.Name(),
		Phases: []entity.Phase{
			{
				Name: "entry",
				Queue: entity.Queue{
					entity.NewClick(AdventureButton),
					entity.NewClick(ApplyManuallyButton),
				},
			},
			{
				Name:        "credentials",
				WaitFor:     AccountEmail,
				WaitTimeout: 10 * time.Second,
				Queue: entity.Queue{
					entity.NewFill(AccountEmail, acc.Email, entity.Required()),
					entity.NewFill(AccountPassword, acc.Password, entity.Required()),
					entity.NewFill(AccountVerifyPassword, acc.Password, entity.Required()),
					entity.NewClick(CreateAccountCheckbox),
				},
				SettleAfter: formSettle,
			},
			{
				Name:        "submit",
				Queue:       entity.Queue{entity.NewClick(CreateAccountSubmit)},
				SettleAfter: pageSettle,
			},
		},
		FailureSignal: AccountErrorMessage,
	}, nil
}
