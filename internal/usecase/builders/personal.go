package builders

import (
	"context"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionBuilder = (*PersonalInfoBuilder)(nil)

type PersonalInfoBuilder struct{}

func NewPersonalInfoBuilder() *PersonalInfoBuilder {
	return &PersonalInfoBuilder{}
}

func (b *PersonalInfoBuilder) Name() string { return "personal_info" }

func (b *PersonalInfoBuilder) Kinds() []entity.PageKind {
	return []entity.PageKind{entity.PagePersonalInfo}
}

// Build fills "My Information". Text inputs are only written when empty so a
// retried pass never overwrites what the site prefilled or the operator fixed.
func (b *PersonalInfoBuilder) Build(ctx context.Context, profile *entity.Profile, probe output.PageProbe) (*entity.Plan, error) {
	if profile == nil {
		return nil, errNoProfile
	}
	info := profile.PersonalInfo

	previousWorker := PreviousWorkerNo
	if info.PreviousWorker {
		previousWorker = PreviousWorkerYes
	}

	queue := entity.Queue{
		entity.NewFill(HowDidYouHear, info.Source, entity.OnlyIfEmpty(), entity.PressEnter()),
		entity.NewClick(previousWorker),
		entity.NewDropdownFill(CountryDropdown, info.Country),

		entity.NewFill(FirstName, info.FirstName, entity.OnlyIfEmpty()),
		entity.NewFill(LastName, info.LastName, entity.OnlyIfEmpty()),

		entity.NewFill(AddressLine1, info.AddressLine, entity.OnlyIfEmpty()),
		entity.NewFill(AddressCity, info.City, entity.OnlyIfEmpty()),
		entity.NewDropdownFill(AddressState, info.State),
		entity.NewFill(AddressPostalCode, info.Zip, entity.OnlyIfEmpty()),

		entity.NewDropdownFill(PhoneDeviceType, info.PhoneDeviceType),
		entity.NewFill(PhoneCountryCode, info.PhoneCountryCode, entity.OnlyIfEmpty(), entity.PressEnter()),
		entity.NewFill(PhoneNumber, info.PhoneNumber, entity.OnlyIfEmpty()),
		entity.NewFill(PhoneExtension, info.PhoneExtension, entity.OnlyIfEmpty()),

		entity.NewClick(SaveAndContinue),
	}

	return &entity.Plan{
		Name: b.Name(),
		Phases: []entity.Phase{{
			Name:        "fields",
			Queue:       queue,
			SettleAfter: pageSettle,
		}},
	}, nil
}
