package profile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"apply-autofill/internal/domain/entity"
)

// Section names used in ConfigError.
const (
	SectionAccount    = "account"
	SectionInfo       = "my-information"
	SectionWork       = "work-experiences"
	SectionEducation  = "education-experiences"
	SectionLanguages  = "languages"
	SectionAdditional = "additional-information"
)

// ConfigError reports a malformed or incomplete profile section.
type ConfigError struct {
	Section string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("profile section %s: %v", e.Section, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var ErrMissingField = errors.New("missing required field")

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) LoadFile(path string) (*entity.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}
	return l.LoadBytes(data)
}

func (l *Loader) LoadBytes(data []byte) (*entity.Profile, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profile YAML: %w", err)
	}
	return doc.toProfile()
}

type document struct {
	Account    account    `yaml:"account"`
	Info       info       `yaml:"my-information"`
	Experience experience `yaml:"my-experience"`
	Additional additional `yaml:"additional-information"`
}

type account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type info struct {
	Source           string `yaml:"source"`
	PreviousWork     bool   `yaml:"previous-work"`
	Country          string `yaml:"country"`
	FirstName        string `yaml:"first-name"`
	LastName         string `yaml:"last-name"`
	AddressLine      string `yaml:"address-line"`
	City             string `yaml:"city"`
	State            string `yaml:"state"`
	Zip              string `yaml:"zip"`
	PhoneDeviceType  string `yaml:"phone-device-type"`
	PhoneCountryCode string `yaml:"phone-code-country"`
	PhoneNumber      string `yaml:"phone-number"`
	PhoneExtension   string `yaml:"phone-extension"`
}

type experience struct {
	Work      []map[string]work      `yaml:"work-experiences"`
	Education []map[string]education `yaml:"education-experiences"`
	Languages []map[string]language  `yaml:"languages"`
	Websites  []string               `yaml:"websites"`
	Resume    string                 `yaml:"resume"`
}

type work struct {
	JobTitle    string `yaml:"job-title"`
	Company     string `yaml:"company"`
	Location    string `yaml:"location"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Description string `yaml:"description"`
	CurrentWork bool   `yaml:"current-work"`
}

type education struct {
	University   string `yaml:"university"`
	Degree       string `yaml:"degree"`
	FieldOfStudy string `yaml:"field-of-study"`
	GPA          string `yaml:"gpa"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
}

type language struct {
	Language      string `yaml:"language"`
	Fluent        bool   `yaml:"fluent"`
	Level         string `yaml:"level"`
	Comprehension string `yaml:"comprehension"`
	Overall       string `yaml:"overall"`
	Reading       string `yaml:"reading"`
	Writing       string `yaml:"writing"`
}

type additional struct {
	Above18Year        string `yaml:"above-18-year"`
	HighSchoolDiploma  string `yaml:"high-school-diploma"`
	WorkAuthorization  string `yaml:"work-authorization"`
	VisaSponsorship    string `yaml:"visa-sponsorship"`
	ServedMilitary     string `yaml:"served-military"`
	MilitarySpouse     string `yaml:"military-spouse"`
	ProtectedVeteran   string `yaml:"protected-veteran"`
	Ethnicity          string `yaml:"ethnicity"`
	SelfIdentification string `yaml:"self-identification"`
	Language           string `yaml:"language"`
}

func (d *document) toProfile() (*entity.Profile, error) {
	if err := required(SectionAccount, "email", d.Account.Email, "password", d.Account.Password); err != nil {
		return nil, err
	}
	if err := required(SectionInfo, "first-name", d.Info.FirstName, "last-name", d.Info.LastName); err != nil {
		return nil, err
	}

	works, err := ordered(SectionWork, "work", d.Experience.Work)
	if err != nil {
		return nil, err
	}
	educations, err := ordered(SectionEducation, "education", d.Experience.Education)
	if err != nil {
		return nil, err
	}
	languages, err := ordered(SectionLanguages, "language", d.Experience.Languages)
	if err != nil {
		return nil, err
	}

	p := &entity.Profile{
		Account: entity.Account{
			Email:    d.Account.Email,
			Password: d.Account.Password,
		},
		PersonalInfo: entity.PersonalInfo{
			Source:           d.Info.Source,
			PreviousWorker:   d.Info.PreviousWork,
			Country:          d.Info.Country,
			FirstName:        d.Info.FirstName,
			LastName:         d.Info.LastName,
			AddressLine:      d.Info.AddressLine,
			City:             d.Info.City,
			State:            d.Info.State,
			Zip:              d.Info.Zip,
			PhoneDeviceType:  d.Info.PhoneDeviceType,
			PhoneCountryCode: d.Info.PhoneCountryCode,
			PhoneNumber:      d.Info.PhoneNumber,
			PhoneExtension:   d.Info.PhoneExtension,
		},
		Experience: entity.Experience{
			Websites:   d.Experience.Websites,
			ResumePath: d.Experience.Resume,
		},
		AdditionalInfo: entity.AdditionalInfo(d.Additional),
	}
	for _, w := range works {
		p.Experience.Work = append(p.Experience.Work, entity.WorkExperience(w))
	}
	for _, e := range educations {
		p.Experience.Education = append(p.Experience.Education, entity.Education(e))
	}
	for _, l := range languages {
		p.Experience.Languages = append(p.Experience.Languages, entity.Language(l))
	}
	return p, nil
}

// ordered unwraps a list of single-key maps keyed prefix1..prefixN.
// Any gap or reordering is a ConfigError for the section.
func ordered[T any](section, prefix string, items []map[string]T) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		key := fmt.Sprintf("%s%d", prefix, i+1)
		v, ok := item[key]
		if !ok {
			return nil, &ConfigError{
				Section: section,
				Err:     fmt.Errorf("entry %d must be keyed %q, review the order", i+1, key),
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// required takes name/value pairs.
func required(section string, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return &ConfigError{Section: section, Err: fmt.Errorf("%w: %s", ErrMissingField, pairs[i])}
		}
	}
	return nil
}
