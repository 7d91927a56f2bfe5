package builders

import (
	"context"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionBuilder = (*ExperienceBuilder)(nil)

// ExperienceBuilder handles the "My Experience" page, which carries both the
// work and the education sections.
type ExperienceBuilder struct{}

func NewExperienceBuilder() *ExperienceBuilder {
	return &ExperienceBuilder{}
}

func (b *ExperienceBuilder) Name() string { return "experience" }

func (b *ExperienceBuilder) Kinds() []entity.PageKind {
	return []entity.PageKind{entity.PageWorkExperience, entity.PageEducationExperience}
}

// repeatedSection describes a list of entries the page grows one slot at a time.
type repeatedSection struct {
	count  int
	slot   func(idx int) entity.Locator
	add    func(idx int) entity.Locator
	fields func(idx int) []entity.Instruction
}

// appendRepeated emits, for every slot the page does not show yet, the click
// that adds it followed by its fields. A slot already on the page gets no add
// click, only its text fields as only-if-empty fills, so a rebuild completes
// values an earlier sweep missed without adding a blank entry or overwriting.
func appendRepeated(ctx context.Context, probe output.PageProbe, queue entity.Queue, sec repeatedSection) entity.Queue {
	for idx := 1; idx <= sec.count; idx++ {
		if exists(ctx, probe, sec.slot(idx)) {
			queue = append(queue, refillIfEmpty(sec.fields(idx))...)
			continue
		}
		queue = append(queue, entity.NewClick(sec.add(idx)))
		queue = append(queue, sec.fields(idx)...)
	}
	return queue
}

// refillIfEmpty keeps the text fills of fields and marks them only-if-empty.
// Clicks and dropdown picks are not repeated.
func refillIfEmpty(fields []entity.Instruction) []entity.Instruction {
	var out []entity.Instruction
	for _, ins := range fields {
		f, ok := ins.(entity.Fill)
		if !ok {
			continue
		}
		opts := []entity.Option{entity.OnlyIfEmpty()}
		if f.Options().PressEnter {
			opts = append(opts, entity.PressEnter())
		}
		if f.Options().Required {
			opts = append(opts, entity.Required())
		}
		out = append(out, entity.NewFill(f.Target(), f.Value(), opts...))
	}
	return out
}

func (b *ExperienceBuilder) Build(ctx context.Context, profile *entity.Profile, probe output.PageProbe) (*entity.Plan, error) {
	if profile == nil {
		return nil, errNoProfile
	}
	exp := profile.Experience

	var queue entity.Queue
	queue = appendRepeated(ctx, probe, queue, workSection(exp.Work))
	queue = appendRepeated(ctx, probe, queue, educationSection(exp.Education))
	if exists(ctx, probe, sectionHeader("Languages")) {
		queue = appendRepeated(ctx, probe, queue, languageSection(exp.Languages))
	}
	if exists(ctx, probe, sectionHeader("Websites")) {
		queue = appendRepeated(ctx, probe, queue, websiteSection(exp.Websites))
	}
	if exp.ResumePath != "" {
		queue = append(queue,
			entity.NewClick(DeleteResume),
			entity.NewUpload(ResumeUpload, exp.ResumePath),
		)
	}

	return &entity.Plan{
		Name: b.Name(),
		Phases: []entity.Phase{
			{Name: "entries", Queue: queue, SettleAfter: pageSettle},
			saveAndContinue("save"),
		},
	}, nil
}

func workSection(works []entity.WorkExperience) repeatedSection {
	return repeatedSection{
		count: len(works),
		slot:  func(idx int) entity.Locator { return slotHeader("Work Experience", idx) },
		add:   func(int) entity.Locator { return WorkAddButton },
		fields: func(idx int) []entity.Instruction {
			w := works[idx-1]
			out := []entity.Instruction{
				entity.NewFill(workField(idx, "Job Title", "input[1]"), w.JobTitle),
				entity.NewFill(workField(idx, "Company", "input[1]"), w.Company),
				entity.NewFill(workField(idx, "Location", "input[1]"), w.Location),
				entity.NewFill(workField(idx, "From", dateInput), dateKeys(w.From)),
				entity.NewFill(workField(idx, "Role Description", "textarea[1]"), w.Description),
			}
			if w.CurrentWork {
				return append(out, entity.NewClick(workCurrentCheckbox(idx)))
			}
			return append(out, entity.NewFill(workField(idx, "To", dateInput), dateKeys(w.To)))
		},
	}
}

func educationSection(schools []entity.Education) repeatedSection {
	const label = "Education"
	return repeatedSection{
		count: len(schools),
		slot:  func(idx int) entity.Locator { return slotHeader(label, idx) },
		add:   func(int) entity.Locator { return EducationAddButton },
		fields: func(idx int) []entity.Instruction {
			e := schools[idx-1]
			return []entity.Instruction{
				entity.NewFill(slotField(label, idx, "School or University", "input[1]"), e.University),
				entity.NewDropdownFill(slotField(label, idx, "Degree", "button[1]"), e.Degree, entity.ValueIsPattern()),
				entity.NewFill(slotField(label, idx, "Field of Study", "input[1]"), e.FieldOfStudy, entity.PressEnter()),
				entity.NewFill(slotField(label, idx, "Overall Result", "input[1]"), e.GPA),
				entity.NewFill(slotField(label, idx, "From", dateInput), dateKeys(e.From)),
				entity.NewFill(slotField(label, idx, "To", dateInput), dateKeys(e.To)),
			}
		},
	}
}

func languageSection(langs []entity.Language) repeatedSection {
	const label = "Languages"
	return repeatedSection{
		count: len(langs),
		slot:  func(idx int) entity.Locator { return slotHeader(label, idx) },
		add: func(idx int) entity.Locator {
			if idx == 1 {
				return LanguagesAddButton
			}
			return addAnother(label, idx-1)
		},
		fields: func(idx int) []entity.Instruction {
			l := langs[idx-1]
			var out []entity.Instruction
			if l.Fluent {
				out = append(out, entity.NewClick(slotField(label, idx, "I am fluent in this language", "input[1]")))
			}
			pick := func(field, value string) entity.Instruction {
				return entity.NewDropdownFill(slotField(label, idx, field, "button[1]"), value, entity.ValueIsPattern())
			}
			return append(out,
				pick("Language", l.Language),
				pick("Level", l.Level),
				pick("Reading Proficiency", l.Comprehension),
				pick("Speaking Proficiency", l.Overall),
				pick("Translation", l.Reading),
				pick("Writing Proficiency", l.Writing),
			)
		},
	}
}

func websiteSection(urls []string) repeatedSection {
	const label = "Professional Websites(s)"
	return repeatedSection{
		count: len(urls),
		slot:  func(idx int) entity.Locator { return slotHeader(label, idx) },
		add: func(idx int) entity.Locator {
			if idx == 1 {
				return WebsitesAddButton
			}
			return addAnother(label, idx-1)
		},
		fields: func(idx int) []entity.Instruction {
			return []entity.Instruction{
				entity.NewFill(slotField(label, idx, "URL", "input[1]"), urls[idx-1]),
			}
		},
	}
}
