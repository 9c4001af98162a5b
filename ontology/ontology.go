// Package ontology defines the concrete entry variants stored in a pack.
//
// The set of kinds is closed: every variant is a tagged struct embedding
// pack.AnnotationBase or pack.LinkBase, with scalar fields carried in an
// attr-tagged struct (absent = nil pointer) and reference lists carried as
// ordered id sequences. Each variant implements the uniform state contract
// {State, Restore, DedupKey}, which is also the serialization contract:
// field names and absent-vs-value semantics are stable across save/restore.
package ontology

import (
	"github.com/teranos/ANNX/errors"
	"github.com/teranos/ANNX/pack"
)

// Entry kinds. These tags drive span-index queries, dedup keys, and
// snapshot records.
const (
	KindToken             pack.Kind = "Token"
	KindSentence          pack.Kind = "Sentence"
	KindDocument          pack.Kind = "Document"
	KindEntityMention     pack.Kind = "EntityMention"
	KindPredicateMention  pack.Kind = "PredicateMention"
	KindPredicateArgument pack.Kind = "PredicateArgument"
	KindPredicateLink     pack.Kind = "PredicateLink"
	KindDependency        pack.Kind = "Dependency"
)

// Factory constructs an empty draft of the given kind. It is the canonical
// pack.Factory for snapshot loading.
func Factory(kind pack.Kind) (pack.Entry, error) {
	switch kind {
	case KindToken:
		return &Token{}, nil
	case KindSentence:
		return &Sentence{}, nil
	case KindDocument:
		return &Document{}, nil
	case KindEntityMention:
		return &EntityMention{}, nil
	case KindPredicateMention:
		return &PredicateMention{}, nil
	case KindPredicateArgument:
		return &PredicateArgument{}, nil
	case KindPredicateLink:
		return &PredicateLink{}, nil
	case KindDependency:
		return &Dependency{}, nil
	default:
		return nil, errors.NewSerialization("unknown entry kind %q", kind)
	}
}
