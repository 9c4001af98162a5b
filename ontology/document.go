package ontology

import (
	"github.com/teranos/ANNX/attrs"
	"github.com/teranos/ANNX/pack"
)

// Document is a document-level annotation, typically spanning all text.
type Document struct {
	pack.AnnotationBase
}

// NewDocument returns an uncommitted document draft over [begin, end).
func NewDocument(begin, end int) *Document {
	return &Document{AnnotationBase: pack.NewAnnotationBase(begin, end)}
}

func (d *Document) Kind() pack.Kind { return KindDocument }

func (d *Document) DedupKey() string {
	return pack.AnnotationKey(KindDocument, d.Span())
}

func (d *Document) State() map[string]any {
	return d.BaseState()
}

func (d *Document) Restore(state map[string]any) error {
	rest, err := d.RestoreBase(state)
	if err != nil {
		return err
	}
	return attrs.ScanStrict(rest, &struct{}{})
}

// EntityMention is a named-entity annotation.
type EntityMention struct {
	pack.AnnotationBase
	fields entityMentionFields
}

type entityMentionFields struct {
	NerType *string `attr:"ner_type"`
}

// NewEntityMention returns an uncommitted entity mention draft over [begin, end).
func NewEntityMention(begin, end int) *EntityMention {
	return &EntityMention{AnnotationBase: pack.NewAnnotationBase(begin, end)}
}

func (m *EntityMention) Kind() pack.Kind { return KindEntityMention }

func (m *EntityMention) DedupKey() string {
	return pack.AnnotationKey(KindEntityMention, m.Span())
}

// NerType returns the entity type label and whether it is set.
func (m *EntityMention) NerType() (string, bool) {
	if m.fields.NerType == nil {
		return "", false
	}
	return *m.fields.NerType, true
}

// SetNerType sets the entity type label.
func (m *EntityMention) SetNerType(nerType string) {
	m.fields.NerType = &nerType
}

func (m *EntityMention) State() map[string]any {
	state := m.BaseState()
	for k, v := range attrs.From(&m.fields) {
		state[k] = v
	}
	return state
}

func (m *EntityMention) Restore(state map[string]any) error {
	rest, err := m.RestoreBase(state)
	if err != nil {
		return err
	}
	m.fields = entityMentionFields{}
	return attrs.ScanStrict(rest, &m.fields)
}
