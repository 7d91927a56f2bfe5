package entity

// Profile is the applicant data the builders read from. It is loaded once and
// never mutated by the flow.
type Profile struct {
	Account        Account
	PersonalInfo   PersonalInfo
	Experience     Experience
	AdditionalInfo AdditionalInfo
}

type Account struct {
	Email    string
	Password string
}

type PersonalInfo struct {
	Source           string
	PreviousWorker   bool
	Country          string
	FirstName        string
	LastName         string
	AddressLine      string
	City             string
	State            string
	Zip              string
	PhoneDeviceType  string
	PhoneCountryCode string
	PhoneNumber      string
	PhoneExtension   string
}

func (p PersonalInfo) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Experience struct {
	Work       []WorkExperience
	Education  []Education
	Languages  []Language
	Websites   []string
	ResumePath string
}

type WorkExperience struct {
	JobTitle    string
	Company     string
	Location    string
	From        string
	To          string
	Description string
	CurrentWork bool
}

type Education struct {
	University   string
	Degree       string
	FieldOfStudy string
	GPA          string
	From         string
	To           string
}

type Language struct {
	Language      string
	Fluent        bool
	Level         string
	Comprehension string
	Overall       string
	Reading       string
	Writing       string
}

type AdditionalInfo struct {
	Above18Year        string
	HighSchoolDiploma  string
	WorkAuthorization  string
	VisaSponsorship    string
	ServedMilitary     string
	MilitarySpouse     string
	ProtectedVeteran   string
	Ethnicity          string
	SelfIdentification string
	Language           string
}
