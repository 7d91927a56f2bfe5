package service

import (
	"sort"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.SectionRegistry = (*SectionRegistryImpl)(nil)

// SectionRegistryImpl maps page kinds to the builder that handles them.
// A builder may claim several kinds; the last registration for a kind wins.
type SectionRegistryImpl struct {
	byKind map[entity.PageKind]output.SectionBuilder
	byName map[string]output.SectionBuilder
}

func NewSectionRegistry() *SectionRegistryImpl {
	return &SectionRegistryImpl{
		byKind: make(map[entity.PageKind]output.SectionBuilder),
		byName: make(map[string]output.SectionBuilder),
	}
}

func (r *SectionRegistryImpl) Register(builder output.SectionBuilder) {
	r.byName[builder.Name()] = builder
	for _, kind := range builder.Kinds() {
		r.byKind[kind] = builder
	}
}

func (r *SectionRegistryImpl) Get(kind entity.PageKind) (output.SectionBuilder, bool) {
	builder, ok := r.byKind[kind]
	return builder, ok
}

func (r *SectionRegistryImpl) All() []output.SectionBuilder {
	result := make([]output.SectionBuilder, 0, len(r.byName))
	for _, builder := range r.byName {
		result = append(result, builder)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}
