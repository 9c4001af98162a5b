package ontology

import (
	"github.com/teranos/ANNX/attrs"
	"github.com/teranos/ANNX/pack"
)

// PredicateMention is the head span of a semantic-role structure. Its
// predicate type participates in the dedup key, so set it before committing
// the draft.
type PredicateMention struct {
	pack.AnnotationBase
	fields predicateMentionFields
}

type predicateMentionFields struct {
	PredType *string `attr:"pred_type"`
}

// NewPredicateMention returns an uncommitted predicate mention draft over [begin, end).
func NewPredicateMention(begin, end int) *PredicateMention {
	return &PredicateMention{AnnotationBase: pack.NewAnnotationBase(begin, end)}
}

func (m *PredicateMention) Kind() pack.Kind { return KindPredicateMention }

func (m *PredicateMention) DedupKey() string {
	predType, _ := m.PredType()
	return pack.AnnotationKey(KindPredicateMention, m.Span(), predType)
}

// PredType returns the predicate type and whether it is set.
func (m *PredicateMention) PredType() (string, bool) {
	if m.fields.PredType == nil {
		return "", false
	}
	return *m.fields.PredType, true
}

// SetPredType sets the predicate type.
func (m *PredicateMention) SetPredType(predType string) {
	m.fields.PredType = &predType
}

func (m *PredicateMention) State() map[string]any {
	state := m.BaseState()
	for k, v := range attrs.From(&m.fields) {
		state[k] = v
	}
	return state
}

func (m *PredicateMention) Restore(state map[string]any) error {
	rest, err := m.RestoreBase(state)
	if err != nil {
		return err
	}
	m.fields = predicateMentionFields{}
	return attrs.ScanStrict(rest, &m.fields)
}

// PredicateArgument is an argument span of a semantic-role structure.
type PredicateArgument struct {
	pack.AnnotationBase
}

// NewPredicateArgument returns an uncommitted argument draft over [begin, end).
func NewPredicateArgument(begin, end int) *PredicateArgument {
	return &PredicateArgument{AnnotationBase: pack.NewAnnotationBase(begin, end)}
}

func (a *PredicateArgument) Kind() pack.Kind { return KindPredicateArgument }

func (a *PredicateArgument) DedupKey() string {
	return pack.AnnotationKey(KindPredicateArgument, a.Span())
}

func (a *PredicateArgument) State() map[string]any {
	return a.BaseState()
}

func (a *PredicateArgument) Restore(state map[string]any) error {
	rest, err := a.RestoreBase(state)
	if err != nil {
		return err
	}
	return attrs.ScanStrict(rest, &struct{}{})
}

// PredicateLink connects a predicate mention (parent) to one of its
// arguments (child) with the argument's role label.
type PredicateLink struct {
	pack.LinkBase
	fields predicateLinkFields
}

type predicateLinkFields struct {
	ArgType *string `attr:"arg_type"`
}

// NewPredicateLink returns an uncommitted link draft between two committed
// entries.
func NewPredicateLink(parent, child pack.EntryID) *PredicateLink {
	return &PredicateLink{LinkBase: pack.NewLinkBase(parent, child)}
}

func (l *PredicateLink) Kind() pack.Kind { return KindPredicateLink }

func (l *PredicateLink) DedupKey() string {
	return pack.LinkKey(KindPredicateLink, l.Parent(), l.Child())
}

// ArgType returns the argument role label and whether it is set.
func (l *PredicateLink) ArgType() (string, bool) {
	if l.fields.ArgType == nil {
		return "", false
	}
	return *l.fields.ArgType, true
}

// SetArgType sets the argument role label.
func (l *PredicateLink) SetArgType(argType string) {
	l.fields.ArgType = &argType
}

func (l *PredicateLink) State() map[string]any {
	state := l.BaseState()
	for k, v := range attrs.From(&l.fields) {
		state[k] = v
	}
	return state
}

func (l *PredicateLink) Restore(state map[string]any) error {
	rest, err := l.RestoreBase(state)
	if err != nil {
		return err
	}
	l.fields = predicateLinkFields{}
	return attrs.ScanStrict(rest, &l.fields)
}
