package builders

import (
	"context"
	"time"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionBuilder = (*AdditionalInfoBuilder)(nil)

// AdditionalInfoBuilder answers the questionnaire, voluntary disclosures and
// self identification pages.
type AdditionalInfoBuilder struct {
	now func() time.Time
}

func NewAdditionalInfoBuilder(now func() time.Time) *AdditionalInfoBuilder {
	if now == nil {
		now = time.Now
	}
	return &AdditionalInfoBuilder{now: now}
}

func (b *AdditionalInfoBuilder) Name() string { return "additional_info" }

func (b *AdditionalInfoBuilder) Kinds() []entity.PageKind {
	return []entity.PageKind{entity.PageAdditionalInfo}
}

func (b *AdditionalInfoBuilder) Build(ctx context.Context, profile *entity.Profile, probe output.PageProbe) (*entity.Plan, error) {
	if profile == nil {
		return nil, errNoProfile
	}
	info := profile.AdditionalInfo

	questions := entity.Queue{
		entity.NewDropdownFill(Above18Dropdown, info.Above18Year),
		entity.NewDropdownFill(HighSchoolDropdown, info.HighSchoolDiploma),
		entity.NewDropdownFill(WorkAuthorizationDropdown, info.WorkAuthorization),
		entity.NewDropdownFill(VisaSponsorshipDropdown, info.VisaSponsorship),
		entity.NewDropdownFill(ServedMilitaryDropdown, info.ServedMilitary),
		entity.NewDropdownFill(MilitarySpouseDropdown, info.MilitarySpouse),
		entity.NewDropdownFill(ProtectedVeteranDropdown, info.ProtectedVeteran),
		entity.NewDropdownFill(EthnicityDropdown, info.Ethnicity),
		entity.NewDropdownFill(GenderDropdown, info.SelfIdentification),
		entity.NewClick(ConsentCheckbox),

		entity.NewDropdownFill(SelfIdentifyLanguage, info.Language),
		entity.NewFill(SelfIdentifyName, profile.PersonalInfo.FullName()),
		entity.NewFill(SelfIdentifyDate, todayKeys(b.now())),
	}

	return &entity.Plan{
		Name: b.Name(),
		Phases: []entity.Phase{
			{Name: "questions", Queue: questions, SettleAfter: pageSettle},
			{
				Name:        "disability",
				Queue:       entity.Queue{entity.NewClick(SelfIdentifyNoDisability)},
				SettleAfter: shortSettle,
			},
			saveAndContinue("save"),
		},
	}, nil
}
