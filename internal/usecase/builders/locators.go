package builders

import (
	"fmt"

	"apply-autofill/internal/domain/entity"
)

// Locators shared by more than one page.
const (
	SaveAndContinue entity.Locator = `//button[contains(text(),"Save and Continue")]`
	SubmitButton    entity.Locator = `//button[contains(text(),"Submit")]`
)

// Authentication.
const (
	AdventureButton       entity.Locator = `//a[@data-automation-id="adventureButton"]`
	ApplyManuallyButton   entity.Locator = `//a[@data-automation-id="applyManually"]`
	AccountEmail          entity.Locator = `//input[@data-automation-id="email"]`
	AccountPassword       entity.Locator = `//input[@data-automation-id="password"]`
	AccountVerifyPassword entity.Locator = `//input[@data-automation-id="verifyPassword"]`
	CreateAccountCheckbox entity.Locator = `//input[@data-automation-id="createAccountCheckbox"]`
	CreateAccountSubmit   entity.Locator = `//div[@data-automation-id="click_filter"]`
	AccountErrorMessage   entity.Locator = `//div[@data-automation-id="errorMessage"]`

	SignInLink     entity.Locator = `//button[@data-automation-id="signInLink"]`
	SignInEmail    entity.Locator = `//text()[contains(.,"Email Address")]/following::input[1]`
	SignInPassword entity.Locator = `//text()[contains(.,"Password")]/following::input[1]`
	SignInSubmit   entity.Locator = `//div[contains(@aria-label,"Sign In")]`
)

// My Information.
const (
	HowDidYouHear     entity.Locator = `//div//text()[contains(., "How Did You Hear About Us?")]/following::input[1]`
	PreviousWorkerYes entity.Locator = `//text()[contains(.,"former")]/following::input[1]`
	PreviousWorkerNo  entity.Locator = `//text()[contains(.,"former")]/following::input[2]`
	CountryDropdown   entity.Locator = `//div//text()[contains(., "Country")]/following::button[@aria-haspopup="listbox"][1]`
	FirstName         entity.Locator = `//div//text()[contains(., "First Name")]/following::input[1]`
	LastName          entity.Locator = `//div//text()[contains(., "Last Name")]/following::input[1]`
	AddressLine1      entity.Locator = `//div[@aria-labelledby="Address-section"]//text()[contains(., "Address Line 1")]/following::input[1]`
	AddressCity       entity.Locator = `//div[@aria-labelledby="Address-section"]//text()[contains(., "City")]/following::input[1]`
	AddressState      entity.Locator = `//div[@aria-labelledby="Address-section"]//text()[contains(., "State")]/following::button[@aria-haspopup="listbox"][1]`
	AddressPostalCode entity.Locator = `//div[@aria-labelledby="Address-section"]//text()[contains(., "Postal Code")]/following::input[1]`
	PhoneDeviceType   entity.Locator = `//div//text()[contains(., "Phone Device Type")]/following::button[@aria-haspopup="listbox"][1]`
	PhoneCountryCode  entity.Locator = `//div//text()[contains(., "Country Phone Code")]/following::input[1]`
	PhoneNumber       entity.Locator = `//div//text()[contains(., "Phone Number")]/following::input[1]`
	PhoneExtension    entity.Locator = `//div//text()[contains(., "Phone Extension")]/following::input[1]`
)

// My Experience.
const (
	WorkAddButton      entity.Locator = `//div[@aria-labelledby="Work-Experience-section"]//button[@data-automation-id="add-button"]`
	EducationAddButton entity.Locator = `//div[@aria-labelledby="Education-section"]//button[@data-automation-id="add-button"]`
	LanguagesAddButton entity.Locator = `//div[@aria-labelledby="Languages-section"]//button[contains(text(),"Add")][1]`
	WebsitesAddButton  entity.Locator = `//div[@aria-labelledby="Websites-section"]//button[contains(text(),"Add")][1]`
	DeleteResume       entity.Locator = `//button[@data-automation-id="delete-file"]`
	ResumeUpload       entity.Locator = `//input[@data-automation-id="file-upload-input-ref"]`
)

// Voluntary disclosures and self identification.
const (
	Above18Dropdown           entity.Locator = `//text()[contains(.,"Are you at least 18")]/following::button[1]`
	HighSchoolDropdown        entity.Locator = `//text()[contains(.,"Do you have a high school")]/following::button[1]`
	WorkAuthorizationDropdown entity.Locator = `//text()[contains(.,"authorized to work")]/following::button[1]`
	VisaSponsorshipDropdown   entity.Locator = `//text()[contains(.,"sponsorship")]/following::button[1]`
	ServedMilitaryDropdown    entity.Locator = `//text()[contains(.,"Have you served")]/following::button[1]`
	MilitarySpouseDropdown    entity.Locator = `//text()[contains(.,"former military spouse")]/following::button[1]`
	ProtectedVeteranDropdown  entity.Locator = `//text()[contains(.,"Protected Veteran")]/following::button[1]`
	EthnicityDropdown         entity.Locator = `//text()[contains(.,"ethnicity category")]/following::button[1]`
	GenderDropdown            entity.Locator = `//text()[contains(.,"Gender")]/following::button[1]`
	ConsentCheckbox           entity.Locator = `//text()[contains(.,"I consent to")]/following::input[1]`
	SelfIdentifyLanguage      entity.Locator = `//h2[contains(text(),"Self Identify")]/following::text()[contains(.,"Language")]/following::button[1]`
	SelfIdentifyName          entity.Locator = `//h2[contains(text(),"Self Identify")]/following::text()[contains(.,"Name")]/following::input[1]`
	SelfIdentifyDate          entity.Locator = `//h2[contains(text(),"Self Identify")]/following::text()[contains(.,"Date")]/following::input[1]`
	SelfIdentifyNoDisability  entity.Locator = `//h2[contains(text(),"Self Identify")]/following::label[contains(text(),"No,")]`
)

func sectionHeader(name string) entity.Locator {
	return entity.Locator(fmt.Sprintf(`//h3[contains(text(),"%s")]`, name))
}

func slotHeader(label string, idx int) entity.Locator {
	return entity.Locator(fmt.Sprintf(`//*[contains(text(),"%s %d")]`, label, idx))
}

func workField(idx int, label, tail string) entity.Locator {
	return entity.Locator(fmt.Sprintf(`//div[@aria-labelledby="Work-Experience-%d-panel"]//text()[contains(.,"%s")]/following::%s`, idx, label, tail))
}

func workCurrentCheckbox(idx int) entity.Locator {
	return entity.Locator(fmt.Sprintf(`//div[@aria-labelledby="Work-Experience-%d-panel"]//label[contains(.,"I currently work here")]/following-sibling::div[1]//input[@type="checkbox" and @aria-checked="false"]`, idx))
}

// slotField scopes a field to the repeated entry whose header reads "<label> <idx>".
func slotField(label string, idx int, field, tail string) entity.Locator {
	return entity.Locator(fmt.Sprintf(`//text()[contains(.,"%s %d")]/following::text()[contains(.,"%s")]/following::%s`, label, idx, field, tail))
}

func addAnother(label string, idx int) entity.Locator {
	return entity.Locator(fmt.Sprintf(`//text()[contains(.,"%s %d")]/following::button[contains(text(),"Add Another")][1]`, label, idx))
}

const dateInput = `input[contains(@aria-valuetext, "MM") or contains(@aria-valuetext, "YYYY")][1]`
