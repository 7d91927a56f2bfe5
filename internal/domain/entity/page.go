package entity

// PageKind is the classification of the currently rendered form page.
// It is derived on demand and never cached.
type PageKind string

const (
	PageSignIn              PageKind = "sign_in"
	PageAccountCreation     PageKind = "account_creation"
	PagePersonalInfo        PageKind = "personal_info"
	PageWorkExperience      PageKind = "work_experience"
	PageEducationExperience PageKind = "education_experience"
	PageAdditionalInfo      PageKind = "additional_info"
	PageReview              PageKind = "review"
	PageUnknown             PageKind = "unknown"
)

func (k PageKind) String() string {
	return string(k)
}

// IsAuthentication reports whether the page belongs to the sign-in / sign-up step.
func (k PageKind) IsAuthentication() bool {
	return k == PageSignIn || k == PageAccountCreation
}

// IsSection reports whether the page is one of the fillable form sections.
func (k PageKind) IsSection() bool {
	switch k {
	case PagePersonalInfo, PageWorkExperience, PageEducationExperience, PageAdditionalInfo:
		return true
	}
	return false
}

// Signature pairs a page kind with the probe that identifies it.
type Signature struct {
	Kind  PageKind
	Probe Locator
}

// PageSnapshot is captured for the operator when the flow escalates.
type PageSnapshot struct {
	URL        string
	HTML       string
	Screenshot *Screenshot
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
